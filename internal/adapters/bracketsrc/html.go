package bracketsrc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTML extracts first-round pods from a bracket page. Regions without a
// first-round column are skipped.
func ParseHTML(r io.Reader) ([]Pod, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var (
		pods    []Pod
		walkErr error
	)
	doc.Find("div.region").EachWithBreak(func(_ int, region *goquery.Selection) bool {
		round1 := region.Find("div.region-round.round-1").First()
		if round1.Length() == 0 {
			return true
		}
		name := strings.TrimSpace(region.Find("h3").First().Text())
		round1.Find("div.game-pod").EachWithBreak(func(i int, pod *goquery.Selection) bool {
			p := Pod{Region: name}
			pod.Find("div.team").EachWithBreak(func(_ int, team *goquery.Selection) bool {
				seedText := strings.TrimSpace(team.Find("span.seed").First().Text())
				seed, err := strconv.Atoi(seedText)
				if err != nil {
					walkErr = fmt.Errorf("%w: region %q pod %d: seed %q", ErrParse, name, i+1, seedText)
					return false
				}
				p.Teams = append(p.Teams, Entrant{
					Name: strings.TrimSpace(team.Find("span.name").First().Text()),
					Seed: seed,
				})
				return true
			})
			if walkErr != nil {
				return false
			}
			pods = append(pods, p)
			return true
		})
		return walkErr == nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	if len(pods) == 0 {
		return nil, fmt.Errorf("%w: no first-round pods found", ErrParse)
	}
	return pods, nil
}

// DefaultFetchTimeout bounds Fetch when the caller passes no client.
const DefaultFetchTimeout = 10 * time.Second

// Fetch downloads a bracket page and parses it.
func Fetch(ctx context.Context, hc *http.Client, url string) ([]Pod, error) {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultFetchTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	return ParseHTML(resp.Body)
}
