package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /
func (h *APIHandler) ShellPage(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(ShellHTML))
}

// ShellHTML is the retro desktop. It keeps no state of its own: it renders the
// session snapshots pushed over the websocket and turns pointer and keyboard
// input into API calls.
const ShellHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Retro Website Builder</title>
<style>
:root {
  --desk: #008080;
  --face: #c0c0c0;
  --light: #ffffff;
  --shadow: #808080;
  --dark: #000000;
  --title: #000080;
  --bar-height: 40px;
}
* { box-sizing: border-box; }
html, body { margin: 0; height: 100%; overflow: hidden; background: var(--desk); font: 13px "MS Sans Serif", Tahoma, sans-serif; }
#desktop { position: absolute; inset: 0 0 var(--bar-height) 0; }
.win { position: absolute; background: var(--face); border: 2px solid; border-color: var(--light) var(--dark) var(--dark) var(--light); display: flex; flex-direction: column; }
.win.min { display: none; }
.titlebar { background: var(--title); color: #fff; padding: 3px 4px; display: flex; align-items: center; cursor: move; user-select: none; }
.titlebar span { flex: 1; font-weight: bold; }
.titlebar button, #bar button { font: inherit; background: var(--face); border: 2px solid; border-color: var(--light) var(--dark) var(--dark) var(--light); margin-left: 2px; min-width: 22px; cursor: pointer; }
.body { flex: 1; overflow: auto; background: #fff; margin: 2px; transform-origin: 0 0; }
.edge { position: absolute; }
.edge.top, .edge.bottom { left: 0; right: 0; height: 5px; cursor: ns-resize; }
.edge.left, .edge.right { top: 0; bottom: 0; width: 5px; cursor: ew-resize; }
.edge.top { top: -3px; } .edge.bottom { bottom: -3px; } .edge.left { left: -3px; } .edge.right { right: -3px; }
.log { margin: 0; padding: 6px; font: 12px monospace; white-space: pre-wrap; }
.log .input { color: #006; } .log .error { color: #b00; } .log .user { color: #006; font-weight: bold; }
.prompt { display: flex; border-top: 1px solid var(--shadow); }
.prompt input { flex: 1; font: 12px monospace; border: 0; padding: 4px; }
.busy { color: var(--shadow); padding: 0 6px; font-style: italic; }
textarea { width: 100%; height: 100%; border: 0; resize: none; font: 12px monospace; }
.tabs button.active { font-weight: bold; }
iframe { width: 100%; height: 100%; border: 0; background: #fff; }
#bar { position: absolute; left: 0; right: 0; bottom: 0; height: var(--bar-height); background: var(--face); border-top: 2px solid var(--light); display: flex; align-items: center; padding: 0 4px; }
#bar button.open { border-color: var(--dark) var(--light) var(--light) var(--dark); }
#notice { margin-left: auto; padding: 0 8px; }
</style>
</head>
<body>
<div id="desktop"></div>
<div id="bar"></div>
<script>
(function () {
  "use strict";
  var TYPES = [
    ["console", "Generator"], ["html-editor", "HTML"], ["css-editor", "CSS"],
    ["preview", "Preview"], ["assistant", "AI"], ["code-editor", "Code"]
  ];
  var state = { id: null, snap: null, ws: null, preview: "", previewFor: -1, previewRev: -1, tab: "html", els: {} };
  var desktop = document.getElementById("desktop");
  var bar = document.getElementById("bar");

  function api(method, path, body) {
    var opts = { method: method, headers: { "Content-Type": "application/json" } };
    if (body !== undefined) opts.body = JSON.stringify(body);
    return fetch(path, opts).then(function (r) {
      return r.status === 204 ? null : r.json();
    });
  }
  function sessionPath(rest) { return "/sessions/" + state.id + rest; }
  function windowCall(type, action, body) { return api("POST", sessionPath("/windows/" + type + "/" + action), body || {}); }
  function viewport() { return { width: window.innerWidth, height: window.innerHeight }; }

  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + sessionPath("/ws"));
    state.ws = ws;
    ws.onmessage = function (e) {
      var msg = JSON.parse(e.data);
      if (msg.type === "closed") { notice("Session closed. Reload to start again."); return; }
      if (msg.type === "error") { notice(msg.message); return; }
      if (msg.snapshot) state.snap = msg.snapshot;
      if (msg.preview) { state.preview = msg.preview; state.previewFor = msg.revision || 0; }
      render();
    };
    ws.onclose = function () { notice("Disconnected."); };
  }
  function send(msg) { if (state.ws && state.ws.readyState === 1) state.ws.send(JSON.stringify(msg)); }
  function notice(text) { var n = document.getElementById("notice"); if (n) n.textContent = text; }

  function el(tag, cls, text) {
    var e = document.createElement(tag);
    if (cls) e.className = cls;
    if (text !== undefined) e.textContent = text;
    return e;
  }

  function renderBar() {
    bar.innerHTML = "";
    var open = {};
    (state.snap.windows || []).forEach(function (w) { open[w.type] = w; });
    TYPES.forEach(function (t) {
      var b = el("button", open[t[0]] ? "open" : "", t[1]);
      b.onclick = function () {
        var w = open[t[0]];
        if (w && !w.minimized) windowCall(t[0], "minimize", { minimized: true });
        else windowCall(t[0], "open");
      };
      bar.appendChild(b);
    });
    var n = el("span", "", "");
    n.id = "notice";
    bar.appendChild(n);
  }

  function frame(w) {
    var node = state.els[w.type];
    if (node) return node;
    node = el("div", "win");
    var title = el("div", "titlebar");
    title.appendChild(el("span", "", w.title));
    [["-", function () { windowCall(w.type, "zoom", { delta: -0.1 }); }],
     ["+", function () { windowCall(w.type, "zoom", { delta: 0.1 }); }],
     ["_", function () { windowCall(w.type, "minimize", { minimized: true }); }],
     ["x", function () { api("DELETE", sessionPath("/windows/" + w.type)); }]
    ].forEach(function (b) {
      var btn = el("button", "", b[0]);
      btn.onmousedown = function (e) { e.stopPropagation(); };
      btn.onclick = b[1];
      title.appendChild(btn);
    });
    node.appendChild(title);
    node.body = el("div", "body");
    node.appendChild(node.body);
    ["top", "bottom", "left", "right"].forEach(function (edge) {
      var h = el("div", "edge " + edge);
      h.onpointerdown = function (e) { startResize(e, w.type, edge); };
      node.appendChild(h);
    });
    node.onmousedown = function () {
      var top = state.snap.windows[state.snap.windows.length - 1];
      if (!top || top.type !== w.type) windowCall(w.type, "front");
    };
    title.onpointerdown = function (e) { startDrag(e, w.type); };
    mount(node, w.type);
    desktop.appendChild(node);
    state.els[w.type] = node;
    return node;
  }

  function startDrag(e, type) {
    var node = state.els[type];
    var ox = e.clientX - node.offsetLeft, oy = e.clientY - node.offsetTop;
    function move(ev) { windowCall(type, "move", { x: ev.clientX - ox, y: ev.clientY - oy }); }
    function up() { window.removeEventListener("pointermove", move); window.removeEventListener("pointerup", up); }
    window.addEventListener("pointermove", move);
    window.addEventListener("pointerup", up);
  }

  function startResize(e, type, edge) {
    e.stopPropagation();
    var lx = e.clientX, ly = e.clientY;
    function move(ev) {
      var dx = ev.clientX - lx, dy = ev.clientY - ly;
      lx = ev.clientX; ly = ev.clientY;
      windowCall(type, "resize", { edge: edge, dx: dx, dy: dy });
    }
    function up() { window.removeEventListener("pointermove", move); window.removeEventListener("pointerup", up); }
    window.addEventListener("pointermove", move);
    window.addEventListener("pointerup", up);
  }

  function promptRow(node, placeholder, onSubmit) {
    var row = el("form", "prompt");
    var input = el("input");
    input.placeholder = placeholder;
    row.appendChild(input);
    row.onsubmit = function (e) {
      e.preventDefault();
      if (!input.value.trim()) return;
      onSubmit(input.value);
      input.value = "";
    };
    node.appendChild(row);
  }

  function editor(field) {
    var ta = el("textarea");
    ta.spellcheck = false;
    ta.oninput = function () { api("PUT", sessionPath("/document/" + field), { content: ta.value }); };
    ta.dataset.field = field;
    return ta;
  }

  function mount(node, type) {
    var body = node.body;
    switch (type) {
    case "console":
      body.appendChild(el("pre", "log"));
      node.busy = el("div", "busy", "");
      node.appendChild(node.busy);
      promptRow(node, "> type a command", function (line) { send({ type: "console", line: line }); });
      break;
    case "assistant":
      body.appendChild(el("pre", "log"));
      node.busy = el("div", "busy", "");
      node.appendChild(node.busy);
      promptRow(node, "Describe your website...", function (text) { send({ type: "assistant", text: text }); });
      break;
    case "html-editor":
      body.appendChild(editor("html"));
      break;
    case "css-editor":
      body.appendChild(editor("css"));
      break;
    case "code-editor":
      var tabs = el("div", "tabs");
      ["html", "css", "js"].forEach(function (f) {
        var b = el("button", "", f.toUpperCase());
        b.onclick = function () { state.tab = f; render(); };
        tabs.appendChild(b);
      });
      node.insertBefore(tabs, body);
      node.tabs = tabs;
      body.appendChild(editor("html"));
      break;
    case "preview":
      var f = el("iframe");
      f.setAttribute("sandbox", "allow-scripts");
      body.appendChild(f);
      break;
    }
  }

  function fill(node, w) {
    var snap = state.snap, doc = snap.document;
    var busy = snap.pending > 0 ? "Working..." : "";
    switch (w.type) {
    case "console":
      writeLog(node, (snap.transcript || []).map(function (e) { return [e.kind, e.text]; }));
      node.busy.textContent = busy;
      break;
    case "assistant":
      writeLog(node, (snap.conversation || []).map(function (m) {
        return [m.role, (m.role === "user" ? "You: " : "AI: ") + m.text];
      }));
      node.busy.textContent = busy;
      break;
    case "html-editor":
    case "css-editor":
    case "code-editor":
      var ta = node.body.querySelector("textarea");
      if (w.type === "code-editor") {
        ta.dataset.field = state.tab;
        ta.oninput = function () { api("PUT", sessionPath("/document/" + state.tab), { content: ta.value }); };
        Array.prototype.forEach.call(node.tabs.children, function (b) {
          b.className = b.textContent.toLowerCase() === state.tab ? "active" : "";
        });
      }
      if (document.activeElement !== ta) ta.value = doc[ta.dataset.field] || "";
      break;
    case "preview":
      if (state.previewRev !== snap.revision && state.previewFor === snap.revision) {
        node.body.querySelector("iframe").srcdoc = state.preview;
        state.previewRev = snap.revision;
      }
      break;
    }
  }

  function writeLog(node, lines) {
    var pre = node.body.querySelector("pre");
    pre.innerHTML = "";
    lines.forEach(function (l) { pre.appendChild(el("div", l[0], l[1])); });
    node.body.scrollTop = node.body.scrollHeight;
  }

  function render() {
    if (!state.snap) return;
    renderBar();
    var seen = {};
    state.snap.windows.forEach(function (w) {
      seen[w.type] = true;
      var node = frame(w);
      node.style.left = w.position.x + "px";
      node.style.top = w.position.y + "px";
      node.style.width = w.size.width + "px";
      node.style.height = w.size.height + "px";
      node.style.zIndex = w.stackOrder;
      node.classList.toggle("min", w.minimized);
      node.body.style.transform = "scale(" + w.zoom + ")";
      node.body.style.width = (100 / w.zoom) + "%";
      node.body.style.height = (100 / w.zoom) + "%";
      fill(node, w);
    });
    Object.keys(state.els).forEach(function (type) {
      if (!seen[type]) {
        desktop.removeChild(state.els[type]);
        delete state.els[type];
        if (type === "preview") state.previewRev = -1;
      }
    });
  }

  window.addEventListener("message", function (e) {
    if (e.data && e.data.type === "preview-error") notice("Preview script error: " + e.data.message);
  });
  window.addEventListener("resize", function () { send({ type: "viewport", viewport: viewport() }); });

  api("POST", "/sessions", { viewport: viewport() }).then(function (snap) {
    state.id = snap.id;
    state.snap = snap;
    render();
    connect();
  });
})();
</script>
</body>
</html>
`
