package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/exception"
	"github.com/Netcracker/qubership-roadmap-service/view"
	log "github.com/sirupsen/logrus"
	"gopkg.in/resty.v1"
)

type ResourceFinderClient interface {
	SearchPlaylists(ctx context.Context, query string, limit int) ([]view.FinderSearchResult, error)
	SearchVideos(ctx context.Context, query string, limit int) ([]view.FinderSearchResult, error)
	MatchTechnologies(ctx context.Context, tech1, tech2 string) (*view.FinderMatchResponse, error)
}

func NewResourceFinderClient(finderUrl, matcherUrl string) ResourceFinderClient {
	cl := http.Client{Timeout: time.Second * 30}
	finder := resty.NewWithClient(&cl)

	matcherCl := http.Client{Timeout: time.Second * 10}
	matcher := resty.NewWithClient(&matcherCl).
		SetRetryCount(2).
		SetRetryWaitTime(time.Second).
		SetRetryMaxWaitTime(4 * time.Second).
		AddRetryCondition(func(r *resty.Response) (bool, error) {
			return r.StatusCode() >= http.StatusInternalServerError || r.StatusCode() == http.StatusTooManyRequests, nil
		})

	return &resourceFinderClientImpl{
		finderUrl:  strings.TrimSuffix(finderUrl, "/"),
		matcherUrl: strings.TrimSuffix(matcherUrl, "/"),
		finder:     finder,
		matcher:    matcher,
	}
}

type resourceFinderClientImpl struct {
	finderUrl  string
	matcherUrl string
	finder     *resty.Client
	matcher    *resty.Client
}

func (f resourceFinderClientImpl) SearchPlaylists(ctx context.Context, query string, limit int) ([]view.FinderSearchResult, error) {
	return f.search(ctx, "playlists", query, limit)
}

func (f resourceFinderClientImpl) SearchVideos(ctx context.Context, query string, limit int) ([]view.FinderSearchResult, error) {
	return f.search(ctx, "videos", query, limit)
}

func (f resourceFinderClientImpl) search(ctx context.Context, kind string, query string, limit int) ([]view.FinderSearchResult, error) {
	req := f.finder.R().SetContext(ctx)
	req.SetQueryParam("query", query)
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}

	resp, err := req.Get(fmt.Sprintf("%s/search/%s", f.finderUrl, kind))
	if err != nil {
		return nil, finderUnavailable(err.Error())
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, finderUnavailable(fmt.Sprintf("search %s for '%s': status code %d", kind, query, resp.StatusCode()))
	}

	var result view.FinderSearchResponse
	err = json.Unmarshal(resp.Body(), &result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode finder response: %w", err)
	}
	log.Debugf("Resource finder returned %d %s for '%s'", len(result.Results), kind, query)
	return result.Results, nil
}

func (f resourceFinderClientImpl) MatchTechnologies(ctx context.Context, tech1, tech2 string) (*view.FinderMatchResponse, error) {
	resp, err := f.matcher.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(view.FinderMatchReq{Tech1: tech1, Tech2: tech2}).
		Post(fmt.Sprintf("%s/match", f.matcherUrl))
	if err != nil {
		return nil, finderUnavailable(err.Error())
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, finderUnavailable(fmt.Sprintf("match '%s' and '%s': status code %d", tech1, tech2, resp.StatusCode()))
	}

	var result view.FinderMatchResponse
	err = json.Unmarshal(resp.Body(), &result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode matcher response: %w", err)
	}
	return &result, nil
}

func finderUnavailable(reason string) error {
	return &exception.CustomError{
		Status:  http.StatusServiceUnavailable,
		Code:    exception.ResourceFinderUnavailable,
		Message: exception.ResourceFinderUnavailableMsg,
		Params:  map[string]interface{}{"reason": reason},
	}
}
