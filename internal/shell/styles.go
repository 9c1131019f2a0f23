package shell

import "sync"

// StyleKey identifies the shared shell style block. Installs are tracked in a
// process-wide registry so multiple shell instances do not duplicate styles.
const StyleKey = "tabshell-style"

var styleRegistry = struct {
	mu   sync.Mutex
	seen map[string]bool
}{seen: make(map[string]bool)}

// InstallStyles records a style install for key and reports whether this was
// the first install in the process.
func InstallStyles(key string) bool {
	styleRegistry.mu.Lock()
	defer styleRegistry.mu.Unlock()
	if styleRegistry.seen[key] {
		return false
	}
	styleRegistry.seen[key] = true
	return true
}

// StylesInstalled reports whether key has been installed.
func StylesInstalled(key string) bool {
	styleRegistry.mu.Lock()
	defer styleRegistry.mu.Unlock()
	return styleRegistry.seen[key]
}

// StyleSheet returns the shell chrome CSS for a theme.
func StyleSheet(theme Theme) string {
	if theme == ThemeLight {
		return baseCSS + lightCSS
	}
	return baseCSS + darkCSS
}

const baseCSS = `
* { box-sizing: border-box; margin: 0; padding: 0; }
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; height: 100vh; display: flex; flex-direction: column; }
#tabs { display: flex; align-items: center; gap: 2px; padding: 6px 6px 0; overflow-x: auto; }
.tab { display: flex; align-items: center; gap: 6px; max-width: 220px; padding: 6px 10px; border-radius: 6px 6px 0 0; cursor: pointer; white-space: nowrap; }
.tab-title { overflow: hidden; text-overflow: ellipsis; font-size: 12px; }
.tab-close { border: none; background: none; color: inherit; cursor: pointer; font-size: 12px; line-height: 1; padding: 2px; }
.tab.new { padding: 6px 10px; font-size: 14px; }
#toolbar { display: flex; align-items: center; gap: 6px; padding: 8px; }
#toolbar button { border: none; border-radius: 4px; padding: 6px 10px; cursor: pointer; font-size: 13px; }
#address { flex: 1; border-radius: 16px; padding: 7px 14px; font-size: 13px; outline: none; border: 1px solid transparent; }
#content { flex: 1; display: flex; align-items: center; justify-content: center; }
#placeholder { text-align: center; }
#placeholder h2 { font-size: 18px; margin-bottom: 8px; }
#placeholder p { font-size: 13px; opacity: 0.7; }
#statusbar { display: flex; align-items: center; gap: 8px; padding: 4px 10px; font-size: 11px; }
#status.error { color: #e5534b; }
`

const darkCSS = `
body { background: #1b1f24; color: #e6edf3; }
.tab { background: #22272e; }
.tab.active { background: #2d333b; }
#toolbar { background: #22272e; }
#toolbar button { background: #2d333b; color: #e6edf3; }
#address { background: #1b1f24; color: #e6edf3; border-color: #444c56; }
#statusbar { background: #22272e; color: #768390; }
`

const lightCSS = `
body { background: #ffffff; color: #1f2328; }
.tab { background: #eff2f5; }
.tab.active { background: #dde2e8; }
#toolbar { background: #f6f8fa; }
#toolbar button { background: #dde2e8; color: #1f2328; }
#address { background: #ffffff; color: #1f2328; border-color: #d0d7de; }
#statusbar { background: #f6f8fa; color: #57606a; }
`
