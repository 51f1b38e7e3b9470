package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"

	"github.com/jobscout/jobscout/internal/common"
	"github.com/jobscout/jobscout/internal/content"
	"github.com/jobscout/jobscout/internal/interfaces"
)

// session is one live headless browser plus its single page.
type session struct {
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
	startedAt     time.Time
}

// Manager implements interfaces.BrowserManager on top of chromedp. The
// session map is the only shared mutable state; it is keyed by a name unique
// per run so concurrent runs for different users cannot collide.
type Manager struct {
	sessions map[string]*session
	mu       sync.Mutex
	config   common.BrowserConfig
	logger   arbor.ILogger

	navigationTimeout time.Duration
	settleTime        time.Duration
	waitTimeout       time.Duration
}

// Ordered cookie-consent dismissal heuristics, most specific first. Applied
// best-effort after every navigation; failures are silently ignored.
var consentSelectors = []string{
	"button[action-type='ACCEPT']",
	"button[data-control-name='ga-cookie.consent.accept.v4']",
	"button[aria-label*='cookie' i]",
	"button#onetrust-accept-btn-handler",
	".cookie-consent button",
}

// NewManager creates a browser session manager.
func NewManager(config common.BrowserConfig, logger arbor.ILogger) *Manager {
	return &Manager{
		sessions:          make(map[string]*session),
		config:            config,
		logger:            logger,
		navigationTimeout: common.ParseDurationOr(config.NavigationTimeout, 45*time.Second),
		settleTime:        common.ParseDurationOr(config.SettleTime, 3*time.Second),
		waitTimeout:       common.ParseDurationOr(config.WaitTimeout, 10*time.Second),
	}
}

// Launch creates a headless browser and a single page under the given name.
// Any prior session with the same name is closed and replaced.
func (m *Manager) Launch(ctx context.Context, name string) error {
	m.Close(name)

	allocatorOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", m.config.Headless),
		chromedp.Flag("no-sandbox", m.config.NoSandbox),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("lang", m.config.Locale),
		chromedp.UserAgent(m.config.UserAgent),
		chromedp.WindowSize(m.config.ViewportWidth, m.config.ViewportHeight),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocatorOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Startup test plus locale header so the first real navigation already
	// carries the right Accept-Language.
	testCtx, testCancel := context.WithTimeout(browserCtx, m.navigationTimeout)
	defer testCancel()

	err := chromedp.Run(testCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": m.config.Locale}),
		chromedp.Navigate("about:blank"),
	)
	if err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("browser failed startup test: %w", err)
	}

	m.mu.Lock()
	m.sessions[name] = &session{
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
		startedAt:     time.Now(),
	}
	m.mu.Unlock()

	m.logger.Debug().
		Str("session", name).
		Bool("headless", m.config.Headless).
		Msg("Browser session launched")

	return nil
}

// get returns the named session or ErrSessionNotFound.
func (m *Manager) get(name string) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrSessionNotFound, name)
	}
	return s, nil
}

// Navigate loads the URL, waits for DOM readiness (bounded by the navigation
// timeout), waits a fixed settle time for client-side rendering, then
// dismisses cookie-consent overlays best-effort.
func (m *Manager) Navigate(ctx context.Context, name, url string) error {
	s, err := m.get(name)
	if err != nil {
		return err
	}

	navCtx, cancel := context.WithTimeout(s.browserCtx, m.navigationTimeout)
	defer cancel()

	start := time.Now()
	err = chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(m.settleTime),
	)
	if err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}

	m.dismissConsent(s)

	m.logger.Debug().
		Str("session", name).
		Str("url", url).
		Dur("duration", time.Since(start)).
		Msg("Navigation completed")

	return nil
}

// dismissConsent tries each consent selector with a short timeout. The first
// successful click wins; every failure is ignored.
func (m *Manager) dismissConsent(s *session) {
	for _, selector := range consentSelectors {
		clickCtx, cancel := context.WithTimeout(s.browserCtx, 2*time.Second)
		err := chromedp.Run(clickCtx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
		cancel()
		if err == nil {
			m.logger.Debug().Str("selector", selector).Msg("Cookie consent dismissed")
			return
		}
	}
}

// Fill sets the value of the first element matching the selector.
func (m *Manager) Fill(ctx context.Context, name, selector, value string) error {
	s, err := m.get(name)
	if err != nil {
		return err
	}

	fillCtx, cancel := context.WithTimeout(s.browserCtx, m.waitTimeout)
	defer cancel()

	err = chromedp.Run(fillCtx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("fill %s failed: %w", selector, err)
	}
	return nil
}

// Click clicks the first element matching the selector.
func (m *Manager) Click(ctx context.Context, name, selector string) error {
	s, err := m.get(name)
	if err != nil {
		return err
	}

	clickCtx, cancel := context.WithTimeout(s.browserCtx, m.waitTimeout)
	defer cancel()

	if err := chromedp.Run(clickCtx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("click %s failed: %w", selector, err)
	}
	return nil
}

// Wait blocks until the selector is visible or the timeout elapses. Timeouts
// above the configured cap are clamped.
func (m *Manager) Wait(ctx context.Context, name, selector string, timeout time.Duration) error {
	s, err := m.get(name)
	if err != nil {
		return err
	}
	if timeout <= 0 || timeout > m.waitTimeout {
		timeout = m.waitTimeout
	}

	waitCtx, cancel := context.WithTimeout(s.browserCtx, timeout)
	defer cancel()

	if err := chromedp.Run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("wait for %s failed: %w", selector, err)
	}
	return nil
}

// Scroll scrolls the page down one viewport to trigger lazy-loaded content.
func (m *Manager) Scroll(ctx context.Context, name string) error {
	s, err := m.get(name)
	if err != nil {
		return err
	}

	scrollCtx, cancel := context.WithTimeout(s.browserCtx, m.waitTimeout)
	defer cancel()

	if err := chromedp.Run(scrollCtx, chromedp.Evaluate(`window.scrollBy(0, window.innerHeight)`, nil)); err != nil {
		return fmt.Errorf("scroll failed: %w", err)
	}
	return nil
}

// CurrentURL returns the page's current location.
func (m *Manager) CurrentURL(ctx context.Context, name string) (string, error) {
	s, err := m.get(name)
	if err != nil {
		return "", err
	}

	urlCtx, cancel := context.WithTimeout(s.browserCtx, m.waitTimeout)
	defer cancel()

	var location string
	if err := chromedp.Run(urlCtx, chromedp.Location(&location)); err != nil {
		return "", fmt.Errorf("failed to read current URL: %w", err)
	}
	return location, nil
}

// pageHTML fetches the full page markup for the content helpers.
func (m *Manager) pageHTML(s *session) (string, error) {
	htmlCtx, cancel := context.WithTimeout(s.browserCtx, m.waitTimeout)
	defer cancel()

	var html string
	if err := chromedp.Run(htmlCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read page HTML: %w", err)
	}
	return html, nil
}

// Snapshot returns the compact accessibility-like text rendering of the page.
func (m *Manager) Snapshot(ctx context.Context, name string) (string, error) {
	s, err := m.get(name)
	if err != nil {
		return "", err
	}
	html, err := m.pageHTML(s)
	if err != nil {
		return "", err
	}
	return content.Snapshot(html), nil
}

// ExtractLinks returns absolute hrefs found under the first candidate
// selector that yields at least one link.
func (m *Manager) ExtractLinks(ctx context.Context, name string, selectors []string) ([]string, error) {
	s, err := m.get(name)
	if err != nil {
		return nil, err
	}
	html, err := m.pageHTML(s)
	if err != nil {
		return nil, err
	}
	base, err := m.CurrentURL(ctx, name)
	if err != nil {
		base = ""
	}
	return content.ExtractLinks(html, base, selectors), nil
}

// JobDescription runs the three-tier description extraction cascade against
// the current page.
func (m *Manager) JobDescription(ctx context.Context, name string) (string, error) {
	s, err := m.get(name)
	if err != nil {
		return "", err
	}
	html, err := m.pageHTML(s)
	if err != nil {
		return "", err
	}
	return content.JobDescription(html), nil
}

// Close releases the browser and removes the session entry. Idempotent:
// closing an unknown or already-closed session is a no-op.
func (m *Manager) Close(name string) {
	m.mu.Lock()
	s, ok := m.sessions[name]
	if ok {
		delete(m.sessions, name)
	}
	m.mu.Unlock()

	if !ok {
		return
	}

	s.browserCancel()
	s.allocCancel()

	m.logger.Debug().
		Str("session", name).
		Dur("lifetime", time.Since(s.startedAt)).
		Msg("Browser session closed")
}

// OpenSessions returns the number of live sessions.
func (m *Manager) OpenSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Shutdown closes every live session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	names := make([]string, 0, len(m.sessions))
	for name := range m.sessions {
		names = append(names, name)
	}
	m.mu.Unlock()

	for _, name := range names {
		m.Close(name)
	}

	if len(names) > 0 {
		m.logger.Info().Int("sessions_closed", len(names)).Msg("Browser manager shut down")
	}
}
