package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retro_site_builder/internal/types"
)

func TestDiskExporterWritesBothFiles(t *testing.T) {
	root := t.TempDir()
	exp := NewDiskExporter(root)
	code := types.WebsiteCode{HTML: "<div>hi</div>", CSS: "div{}", JS: "ignored()"}

	res, err := exp.Export(context.Background(), "sess-1", code.Files())
	require.NoError(t, err)
	assert.Equal(t, "disk", res.Target)
	assert.Equal(t, []string{"index.html", "styles.css"}, res.Files)

	html, err := os.ReadFile(filepath.Join(res.Location, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<div>hi</div>", string(html))
	css, err := os.ReadFile(filepath.Join(res.Location, "styles.css"))
	require.NoError(t, err)
	assert.Equal(t, "div{}", string(css))

	again, err := exp.Export(context.Background(), "sess-1", code.Files())
	require.NoError(t, err)
	assert.NotEqual(t, res.Location, again.Location)
}

func TestDiskExporterRejectsEscapingNames(t *testing.T) {
	exp := NewDiskExporter(t.TempDir())
	_, err := exp.Export(context.Background(), "s", []types.GeneratedFile{{Filename: "../../etc/passwd", Content: "x"}})
	assert.Error(t, err)

	_, err = exp.Export(context.Background(), "", []types.GeneratedFile{{Filename: "index.html"}})
	assert.Error(t, err)

	_, err = exp.Export(context.Background(), "s", nil)
	assert.Error(t, err)
}

func TestDiskExporterHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDiskExporter(t.TempDir()).Export(ctx, "s", types.WebsiteCode{}.Files())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewS3ExporterValidatesConfig(t *testing.T) {
	cases := []S3Config{
		{},
		{Endpoint: "localhost:9000"},
		{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"},
	}
	for _, cfg := range cases {
		_, err := NewS3Exporter(cfg)
		assert.Error(t, err)
	}

	exp, err := NewS3Exporter(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "sites"})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", exp.region)
	assert.False(t, S3Config{}.Enabled())
}
