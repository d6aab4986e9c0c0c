// Package page models the browser capabilities a form handler touches: form
// controls, the message element, the cookie store, and the location.
package page

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Page is the environment a form handler runs in.
type Page interface {
	FieldValue(id string) string
	SetMessage(text string)
	SetCookie(name, value, path string)
	Navigate(url string)
}

// Scheduler defers a callback, like setTimeout in a browser.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// Memory is an in-process Page. It is safe for concurrent use; every mutation
// is last-write-wins.
type Memory struct {
	mu       sync.RWMutex
	origin   *url.URL
	fields   map[string]string
	message  string
	location string
	jar      *cookiejar.Jar
}

// NewMemory creates a page loaded from origin, e.g. "http://localhost:8080".
func NewMemory(origin string) (*Memory, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parse page origin: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("page origin must be absolute, got %q", origin)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	return &Memory{
		origin:   &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"},
		fields:   make(map[string]string),
		location: u.Path,
		jar:      jar,
	}, nil
}

// SetField fills a form control.
func (m *Memory) SetField(id, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fields[id] = value
}

// FieldValue returns the control value, or "" when the control does not exist.
func (m *Memory) FieldValue(id string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fields[id]
}

// SetMessage replaces the message element text.
func (m *Memory) SetMessage(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.message = text
}

// Message returns the current message element text.
func (m *Memory) Message() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.message
}

// SetCookie stores a session cookie for the page origin. A cookie with the same
// name and path replaces the previous one.
func (m *Memory) SetCookie(name, value, path string) {
	m.jar.SetCookies(m.origin, []*http.Cookie{{Name: name, Value: value, Path: path}})
}

// Cookie returns the value of the named cookie visible at the page origin.
func (m *Memory) Cookie(name string) (string, bool) {
	for _, c := range m.jar.Cookies(m.origin) {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// Cookies lists every cookie visible at the page origin.
func (m *Memory) Cookies() []*http.Cookie {
	return m.jar.Cookies(m.origin)
}

// Jar exposes the cookie store so an http.Client sends the page's cookies.
func (m *Memory) Jar() http.CookieJar {
	return m.jar
}

// Navigate records the new location.
func (m *Memory) Navigate(target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.location = target
}

// Location returns the last navigated location.
func (m *Memory) Location() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.location
}

var _ Page = (*Memory)(nil)

// Timers schedules callbacks on real timers and lets the host wait for them.
type Timers struct {
	wg sync.WaitGroup
}

// AfterFunc runs f once d has elapsed.
func (t *Timers) AfterFunc(d time.Duration, f func()) {
	t.wg.Add(1)
	time.AfterFunc(d, func() {
		defer t.wg.Done()
		f()
	})
}

// Wait blocks until every scheduled callback has run.
func (t *Timers) Wait() {
	t.wg.Wait()
}

var _ Scheduler = (*Timers)(nil)
