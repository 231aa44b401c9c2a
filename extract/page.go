package extract

import (
	"context"
	"fmt"

	"github.com/go-rod/rod/lib/proto"
)

// PageMeta is the handful of document-level facts a snapshot carries
// alongside its node list (spec §3, §4.9's viewport/scroll atoms).
type PageMeta struct {
	URL        string
	Title      string
	Language   string
	ViewportW  int
	ViewportH  int
	ScrollX    int
	ScrollY    int
}

type pageMetaJS struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Lang   string `json:"lang"`
	VW     int    `json:"vw"`
	VH     int    `json:"vh"`
	SX     int    `json:"sx"`
	SY     int    `json:"sy"`
}

// FetchPageMeta reads location.href, document.title, the root lang
// attribute, the viewport size, and the scroll offset via a single
// Runtime.evaluate call.
func FetchPageMeta(ctx context.Context, ec *Context) (*PageMeta, error) {
	expr := `({url: location.href, title: document.title, lang: document.documentElement.lang || "", ` +
		`vw: window.innerWidth || 0, vh: window.innerHeight || 0, sx: Math.round(window.scrollX || 0), sy: Math.round(window.scrollY || 0)})`
	req := &proto.RuntimeEvaluate{
		Expression:    expr,
		ReturnByValue: true,
	}

	var res struct {
		Result struct {
			Value *pageMetaJS `json:"value"`
		} `json:"result"`
		ExceptionDetails *struct {
			Text string `json:"text"`
		} `json:"exceptionDetails"`
	}
	if err := ec.Session.Call(ctx, "Runtime.evaluate", req, &res); err != nil {
		return nil, fmt.Errorf("extract: Runtime.evaluate page meta: %w", err)
	}
	if res.ExceptionDetails != nil {
		return nil, fmt.Errorf("extract: page meta expression threw: %s", res.ExceptionDetails.Text)
	}
	if res.Result.Value == nil {
		return &PageMeta{}, nil
	}
	v := res.Result.Value
	return &PageMeta{
		URL: v.URL, Title: v.Title, Language: v.Lang,
		ViewportW: v.VW, ViewportH: v.VH, ScrollX: v.SX, ScrollY: v.SY,
	}, nil
}
