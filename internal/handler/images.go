package handler

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/msomdec/dodgeball-fanpage/internal/domain"
	"github.com/msomdec/dodgeball-fanpage/internal/service"
)

type imageList struct {
	body []byte
	etag string
}

// ImageListHandler serves the generated image list documents the image feed
// reads. Documents are built once; their content hash is the ETag.
type ImageListHandler struct {
	docs map[domain.Feed]imageList
}

// NewImageListHandler expands each feed's URL pattern into its document.
func NewImageListHandler(patterns map[domain.Feed]service.URLPattern) (*ImageListHandler, error) {
	docs := make(map[domain.Feed]imageList, len(patterns))
	for feed, p := range patterns {
		if !feed.Valid() {
			return nil, fmt.Errorf("%w: unknown feed %q", domain.ErrInvalidInput, feed)
		}
		urls, err := p.Expand()
		if err != nil {
			return nil, fmt.Errorf("expand %s pattern: %w", feed, err)
		}
		var buf bytes.Buffer
		if err := service.WriteImageList(&buf, urls); err != nil {
			return nil, err
		}
		sum := blake2b.Sum256(buf.Bytes())
		docs[feed] = imageList{
			body: buf.Bytes(),
			etag: `"` + hex.EncodeToString(sum[:16]) + `"`,
		}
	}
	return &ImageListHandler{docs: docs}, nil
}

// HandleImageList serves /img/{feed}.json, answering 304 when the client
// already holds the current document.
// GET /img/{file}
func (h *ImageListHandler) HandleImageList(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(r.PathValue("file"), ".json")
	if !ok {
		http.NotFound(w, r)
		return
	}
	doc, ok := h.docs[domain.Feed(name)]
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("ETag", doc.etag)
	w.Header().Set("Cache-Control", "public, max-age=300")
	if etagMatches(r.Header.Get("If-None-Match"), doc.etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(doc.body)
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
