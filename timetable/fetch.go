package timetable

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/darrancebeh/ischedulr/remote"
	"github.com/darrancebeh/ischedulr/schedule"
)

// Host is the only origin the fetcher talks to.
const Host = "izone.sunway.edu.my"

var (
	// the url does not point at the iZone timetable host
	ErrNotIzone = errors.New("not an izone url")
)

// Fetcher pulls a live timetable page using the student's signed in session
// cookie. The session itself comes from the browser; there is no headless
// sign in here.
type Fetcher struct {
	client *http.Client
	logger *log.Entry
}

func NewFetcher(logger *log.Entry) (*Fetcher, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	limiter := remote.NewAdaptiveRateLimiter(rate.Every(500*time.Millisecond), 2, rate.Every(time.Second))
	return &Fetcher{
		client: remote.NewRetryClient(logger, limiter, jar),
		logger: logger,
	}, nil
}

// Fetch downloads and parses the timetable page at pageURL. sessionCookie is
// the raw Cookie header value copied from a signed in browser session.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string, sessionCookie string) ([]schedule.ClassInstance, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Hostname() != Host {
		return nil, fmt.Errorf("%w `%s` must be on %s", ErrNotIzone, pageURL, Host)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	if sessionCookie != "" {
		req.Header.Set("Cookie", sessionCookie)
	}

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w fetching timetable: %s", remote.ErrTemporaryNetworkFailure, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"%w timetable page answered %s",
			remote.ErrTemporaryNetworkFailure,
			res.Status,
		)
	}

	classes, err := Parse(res.Body)
	if err != nil {
		return nil, err
	}
	f.logger.Infof("fetched %d classes from the timetable page", len(classes))
	return classes, nil
}
