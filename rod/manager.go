package rod

import (
	"sync"

	"github.com/fwojciec/campusqa"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultRecycleAfter is the number of tabs a browser serves before it is
// replaced. Chrome's memory baseline grows over a long crawl even when every
// tab is closed.
const DefaultRecycleAfter = 75

// BrowserManager owns a headless Chrome process and hands out tabs from it,
// relaunching the browser every recycleAfter tabs.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	recycleAfter int
	bin          string

	mu         sync.Mutex
	browser    *rod.Browser
	launcher   *launcher.Launcher
	served     int
	generation int
	closed     bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithRecycleAfter sets how many tabs a browser serves before relaunch.
func WithRecycleAfter(n int) ManagerOption {
	return func(bm *BrowserManager) {
		if n > 0 {
			bm.recycleAfter = n
		}
	}
}

// WithBin sets the Chrome binary. By default the launcher looks one up or
// downloads it.
func WithBin(path string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.bin = path
	}
}

// NewBrowserManager launches headless Chrome. Close must be called when the
// manager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{recycleAfter: DefaultRecycleAfter}
	for _, opt := range opts {
		opt(bm)
	}

	browser, l, err := bm.launch()
	if err != nil {
		return nil, err
	}
	bm.browser, bm.launcher, bm.generation = browser, l, 1
	return bm, nil
}

// Page opens a blank tab. The returned release func closes it and must be
// called once the caller is done with the tab.
func (bm *BrowserManager) Page() (*rod.Page, func(), error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, nil, campusqa.Errorf(campusqa.EINVALID, "browser manager closed")
	}
	if bm.served >= bm.recycleAfter {
		bm.recycle()
	}

	page, err := bm.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, nil, campusqa.Errorf(campusqa.ERENDER, "open tab: %w", err)
	}
	bm.served++
	return page, func() { _ = page.Close() }, nil
}

// Generation returns the number of browsers launched so far, starting at 1.
func (bm *BrowserManager) Generation() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.generation
}

// Close kills the browser. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true
	return shutdown(bm.browser, bm.launcher)
}

// LauncherPID returns the process ID of the current browser launcher, or 0
// once closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.closed || bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}

func (bm *BrowserManager) launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)
	if bm.bin != "" {
		l = l.Bin(bm.bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, nil, campusqa.Errorf(campusqa.ERENDER, "launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, campusqa.Errorf(campusqa.ERENDER, "connect to browser: %w", err)
	}
	return browser, l, nil
}

// recycle swaps in a fresh browser. If the relaunch fails the current
// browser keeps serving and the next Page tries again. Requires mu.
func (bm *BrowserManager) recycle() {
	browser, l, err := bm.launch()
	if err != nil {
		return
	}
	_ = shutdown(bm.browser, bm.launcher)
	bm.browser, bm.launcher = browser, l
	bm.served = 0
	bm.generation++
}

func shutdown(browser *rod.Browser, l *launcher.Launcher) error {
	var err error
	if browser != nil {
		err = browser.Close()
	}
	if l != nil {
		l.Kill()
	}
	if err != nil {
		return campusqa.Errorf(campusqa.ERENDER, "close browser: %w", err)
	}
	return nil
}
