package storeutils

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/stackpile/graphzep/pkg/embeddings"
	"github.com/stackpile/graphzep/pkg/store"
	"github.com/stackpile/graphzep/pkg/store/inmemory"
	"github.com/stackpile/graphzep/pkg/store/qdrant"
	"github.com/stackpile/graphzep/pkg/store/zep"
)

type NewDriverOpts struct {
	ProviderType string
	TargetURL    string
	APIKey       string

	// Embedder backs query and document embedding for providers without
	// server-side embedding. Required for qdrant.
	Embedder   embeddings.Embedder
	Dimensions uint64

	Logger *slog.Logger
}

func NewDriver(o *NewDriverOpts) (store.Driver, error) {
	switch o.ProviderType {
	case "zep":
		return zep.NewDriver(zep.Config{
			URL:    o.TargetURL,
			APIKey: o.APIKey,
		}, o.Logger)
	case "qdrant":
		host, port, useTLS, err := parseQdrantTarget(o.TargetURL)
		if err != nil {
			return nil, err
		}
		return qdrant.NewDriver(qdrant.Config{
			Host:       host,
			Port:       port,
			APIKey:     o.APIKey,
			UseTLS:     useTLS,
			Dimensions: o.Dimensions,
		}, o.Embedder, o.Logger)
	case "inmemory":
		return inmemory.NewDriver(), nil
	default:
		return nil, fmt.Errorf("unsupported store provider: %s", o.ProviderType)
	}
}

// parseQdrantTarget accepts either a bare "host:port" or a URL form like
// "https://host:6334" and splits it into client config.
func parseQdrantTarget(target string) (host string, port int, useTLS bool, err error) {
	if target == "" {
		return "", 0, false, fmt.Errorf("qdrant target is required")
	}

	if strings.Contains(target, "://") {
		u, err := url.Parse(target)
		if err != nil {
			return "", 0, false, fmt.Errorf("parsing qdrant target %q: %w", target, err)
		}
		host = u.Hostname()
		useTLS = u.Scheme == "https"
		if p := u.Port(); p != "" {
			port, err = strconv.Atoi(p)
			if err != nil {
				return "", 0, false, fmt.Errorf("parsing qdrant port %q: %w", p, err)
			}
		}
		return host, port, useTLS, nil
	}

	host = target
	if h, p, splitErr := splitHostPort(target); splitErr == nil {
		host = h
		port, err = strconv.Atoi(p)
		if err != nil {
			return "", 0, false, fmt.Errorf("parsing qdrant port %q: %w", p, err)
		}
	}
	return host, port, false, nil
}

func splitHostPort(target string) (string, string, error) {
	idx := strings.LastIndex(target, ":")
	if idx < 0 {
		return "", "", fmt.Errorf("no port in %q", target)
	}
	return target[:idx], target[idx+1:], nil
}
