package shell

// supersededError is the host's in-flight-replaced signal: starting a new
// navigation aborts the previous load. Never surfaced as an error.
const supersededError = "net::ERR_ABORTED"

// surfaceHandler routes one surface's lifecycle events back into the shell.
type surfaceHandler struct {
	shell *Shell
	tabID int64
}

func (h *surfaceHandler) LoadStarted() {
	s := h.shell
	s.mu.Lock()
	tab := s.tabLocked(h.tabID)
	if tab == nil {
		s.mu.Unlock()
		return
	}
	snapshot := *tab
	active := s.activeID == h.tabID
	if active {
		s.status = Status{Level: StatusLoading}
	}
	s.mu.Unlock()

	if active {
		s.publishStatus()
	}
	if s.cb.OnLoadStart != nil {
		s.cb.OnLoadStart(snapshot)
	}
}

func (h *surfaceHandler) LoadFinished() {
	s := h.shell
	s.mu.Lock()
	tab := s.tabLocked(h.tabID)
	if tab == nil {
		s.mu.Unlock()
		return
	}
	snapshot := *tab
	active := s.activeID == h.tabID
	if active {
		s.status = Status{Level: StatusReady}
	}
	s.mu.Unlock()

	if active {
		s.publishStatus()
	}
	if s.cb.OnLoadEnd != nil {
		s.cb.OnLoadEnd(snapshot)
	}
}

func (h *surfaceHandler) LoadFailed(errorText string, canceled bool) {
	if canceled || errorText == supersededError {
		return
	}

	s := h.shell
	s.mu.Lock()
	tab := s.tabLocked(h.tabID)
	if tab == nil {
		s.mu.Unlock()
		return
	}
	snapshot := *tab
	active := s.activeID == h.tabID
	if active {
		s.status = Status{Level: StatusError, Message: errorText}
	}
	s.mu.Unlock()

	if active {
		s.publishStatus()
	}
	if s.cb.OnError != nil {
		s.cb.OnError(snapshot, &CodedError{Code: CodeSurfaceFailure, Message: errorText})
	}
}

func (h *surfaceHandler) TitleChanged(title string) {
	if title == "" {
		title = "Untitled"
	}

	s := h.shell
	s.mu.Lock()
	tab := s.tabLocked(h.tabID)
	if tab == nil {
		s.mu.Unlock()
		return
	}
	tab.Title = title
	snapshot := *tab
	s.mu.Unlock()

	s.publishTabs()
	if s.cb.OnTitleChange != nil {
		s.cb.OnTitleChange(snapshot, title)
	}
}

func (h *surfaceHandler) Navigated(url string) {
	s := h.shell
	s.mu.Lock()
	tab := s.tabLocked(h.tabID)
	if tab == nil {
		s.mu.Unlock()
		return
	}
	tab.URL = url
	snapshot := *tab
	active := s.activeID == h.tabID
	s.mu.Unlock()

	s.publishTabs()
	if active {
		s.publishNavigate(url)
	}
	if s.cb.OnNavigate != nil {
		s.cb.OnNavigate(snapshot, url)
	}
}
