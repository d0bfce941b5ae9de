package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// maxBody bounds how much of a response is read.
const maxBody = 10 << 20

// GetJSON fetches url and decodes the JSON body into T. A non 2xx answer is
// reported as *StatusError.
func GetJSON[T any](ctx context.Context, client *http.Client, url string) (T, error) {
	var out T
	body, err := fetch(ctx, client, url)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, goerrors.Wrap(err, goerrors.CategoryExternal, "decode response from "+url)
	}
	return out, nil
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "build request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "GET "+url)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "read response from "+url)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
