package cache

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/restaurant"
)

// Fetcher retrieves a remote image already downscaled to fit maxPx on its
// longer edge.
type Fetcher interface {
	FetchImage(ctx context.Context, url string, maxPx int) (image.Image, error)
}

// HTTPFetcher fetches and downscales images over HTTP.
type HTTPFetcher struct {
	Client *http.Client
}

// FetchImage downloads, decodes, and downscales an image.
func (f *HTTPFetcher) FetchImage(ctx context.Context, url string, maxPx int) (image.Image, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	return downscale(img, maxPx), nil
}

// downscale shrinks img so its longer edge is at most maxPx, preserving
// aspect ratio. Images already small enough pass through untouched.
func downscale(img image.Image, maxPx int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxPx && h <= maxPx {
		return img
	}

	var tw, th int
	if w >= h {
		tw = maxPx
		th = h * maxPx / w
	} else {
		th = maxPx
		tw = w * maxPx / h
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

type thumbnailTarget struct {
	id  string
	url string
}

func thumbnailTargets(restaurants []restaurant.Restaurant) []thumbnailTarget {
	var targets []thumbnailTarget
	for _, r := range restaurants {
		if r.ImageURL != "" {
			targets = append(targets, thumbnailTarget{id: r.ID, url: r.ImageURL})
		}
	}
	return targets
}

// fetchThumbnails fetches and persists one thumbnail per target. Every
// failure is logged and swallowed: a missing thumbnail degrades to "no
// image", never to a failed cache write. The row update is a best-effort,
// last-writer-wins single-field write.
func (s *Store) fetchThumbnails(targets []thumbnailTarget) {
	for _, tgt := range targets {
		if err := s.fetchOneThumbnail(tgt); err != nil {
			s.logger.Warn("thumbnail fetch", "restaurant", tgt.id, "error", err)
		}
	}
}

func (s *Store) fetchOneThumbnail(tgt thumbnailTarget) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.FetchTimeout)
	defer cancel()

	img, err := s.fetcher.FetchImage(ctx, tgt.url, s.cfg.ThumbnailSize)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.cfg.ThumbDir, 0755); err != nil {
		return fmt.Errorf("create thumb dir: %w", err)
	}

	path := s.thumbPath(tgt.id)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create thumbnail file: %w", err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 80}); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close thumbnail file: %w", err)
	}

	// The fetch deadline must not cancel the row update for a thumbnail
	// that already landed on disk.
	return s.db.SetThumbPath(context.Background(), tgt.id, path)
}

func (s *Store) thumbPath(id string) string {
	return filepath.Join(s.cfg.ThumbDir, id+".jpg")
}

// sweepOrphans deletes thumbnail files whose basename is not among validIDs.
// The id snapshot is taken once by the caller, not re-queried per file, so a
// single sweep pass sees one consistent view.
func (s *Store) sweepOrphans(validIDs []string) {
	valid := make(map[string]struct{}, len(validIDs))
	for _, id := range validIDs {
		valid[id] = struct{}{}
	}

	entries, err := os.ReadDir(s.cfg.ThumbDir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("orphan sweep", "error", err)
		}
		return
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if _, ok := valid[id]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(s.cfg.ThumbDir, e.Name())); err != nil {
			s.logger.Warn("orphan sweep remove", "file", e.Name(), "error", err)
		}
	}
}
