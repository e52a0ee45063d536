package youtube

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// NewService builds an authenticated YouTube Data API v3 service handle.
// Saved credentials are loaded from tokenPath when present; otherwise the
// console authorization flow runs (prompting on in/out) and the captured
// token is saved for the next run. Token refresh is handled transparently by
// the oauth2 token source.
func NewService(ctx context.Context, secretsPath, tokenPath string, in io.Reader, out io.Writer) (*youtube.Service, error) {
	secrets, err := os.ReadFile(secretsPath)
	if err != nil {
		return nil, fmt.Errorf("read client secrets: %w", err)
	}

	cfg, err := google.ConfigFromJSON(secrets, youtube.YoutubeScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}

	token, err := loadToken(tokenPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		token, err = authorize(ctx, cfg, in, out)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokenPath, token); err != nil {
			return nil, err
		}
	}

	service, err := youtube.NewService(ctx, option.WithTokenSource(cfg.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return service, nil
}

// authorize runs the installed-app console flow: print the consent URL,
// read the authorization code back, and exchange it for a token.
func authorize(ctx context.Context, cfg *oauth2.Config, in io.Reader, out io.Writer) (*oauth2.Token, error) {
	url := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Open the following URL in a browser and authorize access:\n\n%s\n\nEnter the authorization code: ", url)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read authorization code: %w", err)
		}
		return nil, fmt.Errorf("read authorization code: unexpected end of input")
	}

	token, err := cfg.Exchange(ctx, scanner.Text())
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return token, nil
}

func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	token := &oauth2.Token{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, fmt.Errorf("parse saved token %s: %w", path, err)
	}
	return token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	// 0600: the token grants full playlist access.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}
