package e2e

import (
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// BrowserEnv enables the checks that need a real browser for layout and
// computed styles.
const BrowserEnv = "PARLEY_E2E_BROWSER"

// BrowserEnabled reports whether headless browser checks should run.
func BrowserEnabled() bool {
	return os.Getenv(BrowserEnv) == "1"
}

// elementTimeout bounds how long a lookup waits for an element to appear.
const elementTimeout = 10 * time.Second

// Browser is a headless Chrome driven through the DevTools protocol.
type Browser struct {
	BaseURL string

	browser *rod.Browser
}

func LaunchBrowser(baseURL string) (*Browser, error) {
	u, err := launcher.New().Headless(true).Launch()
	if err != nil {
		return nil, fmt.Errorf("error launching browser: %w", err)
	}
	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("error connecting to browser: %w", err)
	}
	return &Browser{BaseURL: baseURL, browser: b}, nil
}

func (b *Browser) Close() error {
	return b.browser.Close()
}

// Login opens an incognito tab, signs in through the login form and waits
// for the landing page.
func (b *Browser) Login(username, password string) (*rod.Page, error) {
	incognito, err := b.browser.Incognito()
	if err != nil {
		return nil, err
	}
	page, err := incognito.Page(proto.TargetCreateTarget{URL: b.BaseURL + "/login"})
	if err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	if err := fill(page, "#loginId", username); err != nil {
		return nil, err
	}
	if err := fill(page, "#loginPassword", password); err != nil {
		return nil, err
	}
	wait := page.WaitNavigation(proto.PageLifecycleEventNameLoad)
	if err := click(page, "#loginButton"); err != nil {
		return nil, err
	}
	wait()
	return page, nil
}

// Visit navigates page to path and waits for it to load.
func (b *Browser) Visit(page *rod.Page, path string) error {
	if err := page.Navigate(b.BaseURL + path); err != nil {
		return err
	}
	return page.WaitLoad()
}

// Type types text into the element matching selector.
func Type(page *rod.Page, selector, text string) error {
	return fill(page, selector, text)
}

// PressEnter presses enter in the focused element and waits for the page
// the form submission leads to.
func PressEnter(page *rod.Page) error {
	wait := page.WaitNavigation(proto.PageLifecycleEventNameLoad)
	if err := page.Keyboard.Type(input.Enter); err != nil {
		return err
	}
	wait()
	return nil
}

// Click clicks the element matching selector and waits for the page it
// leads to.
func Click(page *rod.Page, selector string) error {
	wait := page.WaitNavigation(proto.PageLifecycleEventNameLoad)
	if err := click(page, selector); err != nil {
		return err
	}
	wait()
	return nil
}

// WaitFor waits until an element matching selector exists.
func WaitFor(page *rod.Page, selector string) error {
	_, err := page.Timeout(elementTimeout).Element(selector)
	return err
}

// ScrollTo scrolls the element matching selector to its top or bottom.
func ScrollTo(page *rod.Page, selector string, bottom bool) error {
	_, err := page.Eval(`(sel, bottom) => {
		const el = document.querySelector(sel);
		el.scrollTop = bottom ? el.scrollHeight : 0;
	}`, selector, bottom)
	return err
}

// VisibleWithin reports whether the first element under container whose
// text contains text lies inside the container's visible box.
func VisibleWithin(page *rod.Page, container, text string) (bool, error) {
	res, err := page.Eval(`(sel, text) => {
		const box = document.querySelector(sel);
		if (!box || box.hidden) {
			return false;
		}
		const el = [...box.querySelectorAll('*')].find((n) => n.children.length === 0 && n.textContent.includes(text)) ||
			[...box.children].find((n) => n.textContent.includes(text));
		if (!el) {
			return false;
		}
		const outer = box.getBoundingClientRect();
		const inner = el.getBoundingClientRect();
		return inner.bottom > outer.top && inner.top < outer.bottom && inner.height > 0;
	}`, container, text)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

// ComputedColor returns the computed CSS color of the element matching selector.
func ComputedColor(page *rod.Page, selector string) (string, error) {
	res, err := page.Eval(`(sel) => getComputedStyle(document.querySelector(sel)).color`, selector)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// Value returns the current value of a form control.
func Value(page *rod.Page, selector string) (string, error) {
	res, err := page.Eval(`(sel) => document.querySelector(sel).value`, selector)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func fill(page *rod.Page, selector, text string) error {
	el, err := page.Timeout(elementTimeout).Element(selector)
	if err != nil {
		return err
	}
	return el.Input(text)
}

func click(page *rod.Page, selector string) error {
	el, err := page.Timeout(elementTimeout).Element(selector)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}
