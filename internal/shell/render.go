package shell

import (
	"html/template"
	"log/slog"
	"strings"
)

// RenderState is everything the shell chrome needs to draw itself. Rendering
// is a pure function of this snapshot; the Shell rebuilds the full markup on
// every mutation rather than diffing.
type RenderState struct {
	Theme          Theme
	ShowTabs       bool
	ShowNavigation bool
	ShowStatusBar  bool
	Tabs           []Tab
	ActiveID       int64
	Address        string
	Status         Status
	Empty          bool
	StyleSheet     template.CSS
}

// RenderState snapshots the current shell for rendering.
func (s *Shell) RenderState() RenderState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := RenderState{
		Theme:          s.opts.Theme,
		ShowTabs:       s.opts.ShowTabs,
		ShowNavigation: s.opts.ShowNavigation,
		ShowStatusBar:  s.opts.ShowStatusBar,
		ActiveID:       s.activeID,
		Status:         s.status,
		Empty:          true,
		StyleSheet:     template.CSS(StyleSheet(s.opts.Theme)),
	}
	st.Tabs = make([]Tab, len(s.tabs))
	for i, t := range s.tabs {
		st.Tabs[i] = *t
	}
	if tab := s.tabLocked(s.activeID); tab != nil {
		st.Address = tab.URL
		st.Empty = tab.URL == ""
	}
	return st
}

// RenderPage renders the full shell chrome.
func (s *Shell) RenderPage() string {
	return RenderPage(s.RenderState())
}

// RenderPage produces the complete shell chrome markup from a state snapshot.
// Tab titles pass through html/template escaping, so markup in untrusted page
// titles renders as literal text.
func RenderPage(st RenderState) string {
	var b strings.Builder
	if err := shellTmpl.ExecuteTemplate(&b, "page", st); err != nil {
		slog.Error("shell page render failed", "error", err)
		return ""
	}
	return b.String()
}

// RenderTabStrip produces only the tab-strip fragment, used for live strip
// refreshes pushed to connected chrome pages.
func RenderTabStrip(tabs []Tab, activeID int64) string {
	var b strings.Builder
	err := shellTmpl.ExecuteTemplate(&b, "tabstrip", RenderState{Tabs: tabs, ActiveID: activeID})
	if err != nil {
		slog.Error("tab strip render failed", "error", err)
		return ""
	}
	return b.String()
}

func renderTabStrip(tabs []*Tab, activeID int64) string {
	snapshot := make([]Tab, len(tabs))
	for i, t := range tabs {
		snapshot[i] = *t
	}
	return RenderTabStrip(snapshot, activeID)
}

var shellTmpl = template.Must(template.New("shell").Parse(shellTemplate))

const shellTemplate = `
{{define "tabstrip"}}{{range .Tabs}}<div class="tab{{if eq .ID $.ActiveID}} active{{end}}" data-id="{{.ID}}" onclick="switchTab({{.ID}})"><span class="tab-title">{{.Title}}</span><button class="tab-close" title="Close tab" onclick="event.stopPropagation();closeTab({{.ID}})">&#215;</button></div>{{end}}<div class="tab new" title="New tab" onclick="newTab()">+</div>{{end}}

{{define "page"}}<!doctype html>
<html lang="en" data-theme="{{.Theme}}">
<head>
<meta charset="utf-8" />
<title>tabshell</title>
<style id="tabshell-style">{{.StyleSheet}}</style>
</head>
<body>
{{if .ShowTabs}}<div id="tabs">{{template "tabstrip" .}}</div>{{end}}
{{if .ShowNavigation}}<div id="toolbar">
<button id="back" title="Back" onclick="history_('back')">&#8592;</button>
<button id="forward" title="Forward" onclick="history_('forward')">&#8594;</button>
<button id="reload" title="Reload" onclick="history_('reload')">&#8635;</button>
<input id="address" type="text" value="{{.Address}}" placeholder="Search or enter address" spellcheck="false" />
<button id="go" onclick="navigate()">Go</button>
</div>{{end}}
<div id="content">
<div id="placeholder"{{if not .Empty}} hidden{{end}}>
<h2>New Tab</h2>
<p>Type an address or search above. Ctrl+T opens a tab, Ctrl+W closes it.</p>
</div>
</div>
{{if .ShowStatusBar}}<div id="statusbar"><span id="status" class="{{.Status.Level}}">{{.Status.Level}}{{with .Status.Message}}: {{.}}{{end}}</span></div>{{end}}
<script>
const api = (path, opts) => fetch('/api/v1' + path, Object.assign({method: 'POST', headers: {'Content-Type': 'application/json'}}, opts));
function newTab() { api('/tabs', {body: '{}'}); }
function closeTab(id) { fetch('/api/v1/tabs/' + id, {method: 'DELETE'}); }
function switchTab(id) { api('/tabs/' + id + '/activate'); }
function history_(op) { api('/history/' + op); }
function navigate() {
  const input = document.getElementById('address');
  if (input && input.value) {
    api('/navigate', {body: JSON.stringify({input: input.value})});
    hidePlaceholder();
  }
}
function hidePlaceholder() {
  const ph = document.getElementById('placeholder');
  if (ph) ph.hidden = true;
}
document.addEventListener('keydown', (e) => {
  const addr = document.getElementById('address');
  if (e.key === 'Enter' && e.target === addr) { e.preventDefault(); navigate(); return; }
  if (!(e.ctrlKey || e.metaKey)) return;
  const k = e.key.toLowerCase();
  if (k === 't') { e.preventDefault(); newTab(); }
  else if (k === 'w') { e.preventDefault(); api('/tabs/active/close'); }
  else if (k === 'r') { e.preventDefault(); history_('reload'); }
});
const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
ws.onmessage = (msg) => {
  const ev = JSON.parse(msg.data);
  if (ev.kind === 'tabs') {
    const tabs = document.getElementById('tabs');
    if (tabs) tabs.innerHTML = ev.payload;
  } else if (ev.kind === 'status') {
    const el = document.getElementById('status');
    if (!el) return;
    const st = JSON.parse(ev.payload);
    el.className = st.level;
    el.textContent = st.message ? st.level + ': ' + st.message : st.level;
  } else if (ev.kind === 'navigate') {
    const addr = document.getElementById('address');
    if (addr) addr.value = ev.payload;
    const ph = document.getElementById('placeholder');
    if (ph) ph.hidden = ev.payload !== '';
  }
};
</script>
</body>
</html>{{end}}
`
