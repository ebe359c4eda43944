package view

// GalleryData is the gallery grid.
type GalleryData struct {
	Page
	Tiles  []Tile
	Notice *Notice
}

// NewGalleryData lays out urls as gallery tiles. Reveal delays repeat every
// twenty tiles so far-down images do not wait long.
func NewGalleryData(p Page, urls []string, priority int) GalleryData {
	tiles := make([]Tile, len(urls))
	for i, u := range urls {
		tiles[i] = Tile{
			URL:      u,
			Number:   i + 1,
			Delay:    (i % galleryStaggerCycle) * GalleryRevealStagger,
			Priority: i < priority,
		}
	}
	return GalleryData{Page: p, Tiles: tiles}
}

// Count is the number of images shown.
func (d GalleryData) Count() int { return len(d.Tiles) }
