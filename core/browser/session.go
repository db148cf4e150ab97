// Package browser connects chatscribe to the host page over the
// DevTools protocol. It either attaches to an already-running Chromium
// (debugger URL) or launches its own, finds the conversation tab, and
// exposes the scroll/probe/snapshot primitives the pipeline needs.
package browser

import (
	"context"
	"fmt"
	"regexp"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/chatscribe/core"
	"github.com/gaurav-prasanna/chatscribe/core/config"
)

// Session owns the browser connection and the conversation page.
// It implements core.Scroller and core.Prober against the live DOM.
type Session struct {
	cfg      config.Config
	log      *zap.Logger
	browser  *rod.Browser
	page     *rod.Page
	launched bool
}

// Connect attaches to the browser and locates the conversation tab.
func Connect(ctx context.Context, cfg config.Config, log *zap.Logger) (*Session, error) {
	s := &Session{cfg: cfg, log: log}

	controlURL := cfg.Browser.DebuggerURL
	if controlURL != "" {
		resolved, err := launcher.ResolveURL(controlURL)
		if err != nil {
			return nil, fmt.Errorf("resolving debugger URL %s: %w", controlURL, err)
		}
		controlURL = resolved
	} else {
		l := launcher.New().Headless(cfg.Browser.Headless)
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launching browser: %w", err)
		}
		controlURL = u
		s.launched = true
	}

	s.browser = rod.New().ControlURL(controlURL).Context(ctx)
	if err := s.browser.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	page, err := s.findConversationPage()
	if err != nil {
		return nil, err
	}
	s.page = page
	return s, nil
}

// findConversationPage picks the open tab matching the configured URL
// pattern, falling back to the first open page.
func (s *Session) findConversationPage() (*rod.Page, error) {
	pages, err := s.browser.Pages()
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no open pages in browser")
	}
	pattern := regexp.QuoteMeta(s.cfg.Browser.PageURLPattern)
	if page, err := pages.FindByURL(pattern); err == nil {
		return page, nil
	}
	s.log.Warn("no page matched URL pattern, using first page",
		zap.String("pattern", s.cfg.Browser.PageURLPattern))
	return pages[0], nil
}

// EnsureContainer verifies the scrollable conversation root exists.
// Its absence is fatal to the export.
func (s *Session) EnsureContainer(ctx context.Context) error {
	res, err := s.page.Context(ctx).Eval(
		`(sel) => document.querySelector(sel) !== null`,
		s.cfg.Selectors.Scroller)
	if err != nil {
		return fmt.Errorf("probing for container: %w", err)
	}
	if !res.Value.Bool() {
		return core.ErrContainerNotFound
	}
	return nil
}

// ScrollToTop sets the container's scroll offset to the topmost position.
func (s *Session) ScrollToTop(ctx context.Context) error {
	_, err := s.page.Context(ctx).Eval(`(sel) => {
		const el = document.querySelector(sel);
		if (!el) throw new Error("container gone");
		el.scrollTop = 0;
	}`, s.cfg.Selectors.Scroller)
	if err != nil {
		return fmt.Errorf("scrolling to top: %w", err)
	}
	return nil
}

// ScrollToBottom restores the container to its usual resting position.
func (s *Session) ScrollToBottom(ctx context.Context) error {
	_, err := s.page.Context(ctx).Eval(`(sel) => {
		const el = document.querySelector(sel);
		if (!el) throw new Error("container gone");
		el.scrollTop = el.scrollHeight;
	}`, s.cfg.Selectors.Scroller)
	if err != nil {
		return fmt.Errorf("scrolling to bottom: %w", err)
	}
	return nil
}

// TurnCount measures how many turn containers are materialized.
func (s *Session) TurnCount(ctx context.Context) (int, error) {
	res, err := s.page.Context(ctx).Eval(
		`(sel) => document.querySelectorAll(sel).length`,
		s.cfg.Selectors.TurnContainer)
	if err != nil {
		return 0, fmt.Errorf("counting turns: %w", err)
	}
	return res.Value.Int(), nil
}

// Snapshot returns the full serialized DOM of the conversation page.
func (s *Session) Snapshot(ctx context.Context) (string, error) {
	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("capturing page HTML: %w", err)
	}
	return html, nil
}

// Title returns the host page title.
func (s *Session) Title(ctx context.Context) (string, error) {
	info, err := s.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("reading page info: %w", err)
	}
	return info.Title, nil
}

// OpenSidebarEntry clicks the nth conversation entry in the sidebar and
// waits for the page to settle, so history materialization can start
// fresh on it.
func (s *Session) OpenSidebarEntry(ctx context.Context, index int) error {
	page := s.page.Context(ctx)
	elements, err := page.Elements(s.cfg.Selectors.SidebarItem)
	if err != nil {
		return fmt.Errorf("locating sidebar entries: %w", err)
	}
	if index < 0 || index >= len(elements) {
		return fmt.Errorf("sidebar entry %d out of range (%d entries)", index, len(elements))
	}
	if err := elements[index].Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("opening sidebar entry %d: %w", index, err)
	}
	if err := page.WaitLoad(); err != nil {
		s.log.Debug("wait after sidebar click", zap.Error(err))
	}
	return nil
}

// Close shuts down a browser we launched ourselves. An attached
// browser belongs to the user and is left running.
func (s *Session) Close() error {
	if s.browser == nil || !s.launched {
		return nil
	}
	return s.browser.Close()
}
