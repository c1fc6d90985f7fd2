package webscrapingdev

import (
	"net/http/cookiejar"
	"net/url"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const DefaultBaseUrl = "https://web-scraping.dev"

type Client struct {
	BaseUrl   *url.URL
	Http      *resty.Client
	pageDelay time.Duration
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// wait inserted between page fetches, defaults to 500ms;
	// negative disables the wait
	PageDelay time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 15)

	instrument(client)

	pageDelay := opts.PageDelay
	if pageDelay == 0 {
		pageDelay = time.Millisecond * 500
	}
	if pageDelay < 0 {
		pageDelay = 0
	}

	c := &Client{
		BaseUrl:   baseUrl,
		Http:      client,
		pageDelay: pageDelay,
	}
	return c, nil
}

// waits between page fetches so pagination stays polite,
// returns early if the context is cancelled
func (c *Client) waitBetweenPages(done <-chan struct{}) {
	if c.pageDelay == 0 {
		return
	}
	timer := time.NewTimer(c.pageDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-done:
	}
}
