package engine

import (
	"image"

	"retroport/pkg/video"
)

// textureCache maps game textures to GL texture names. The GL work is done by
// the upload, free and filter hooks; the cache only keeps the books.
type textureCache struct {
	upload func(img *image.RGBA) uint32
	free   func(tex uint32)
	filter func(tex uint32)

	entries map[video.TextureID]uint32
}

func newTextureCache(upload func(*image.RGBA) uint32, free, filter func(uint32)) *textureCache {
	return &textureCache{
		upload:  upload,
		free:    free,
		filter:  filter,
		entries: make(map[video.TextureID]uint32),
	}
}

// get returns the texture for id, uploading and filtering img on a miss
func (c *textureCache) get(id video.TextureID, img *image.RGBA) uint32 {
	if tex, ok := c.entries[id]; ok {
		return tex
	}
	tex := c.upload(img)
	c.filter(tex)
	c.entries[id] = tex
	return tex
}

// remove frees the texture for id and reports whether there was one
func (c *textureCache) remove(id video.TextureID) bool {
	tex, ok := c.entries[id]
	if !ok {
		return false
	}
	c.free(tex)
	delete(c.entries, id)
	return true
}

// clear frees every texture and returns how many there were
func (c *textureCache) clear() int {
	n := len(c.entries)
	for id, tex := range c.entries {
		c.free(tex)
		delete(c.entries, id)
	}
	return n
}

// refilter re-applies the current filter to every cached texture
func (c *textureCache) refilter() {
	for _, tex := range c.entries {
		c.filter(tex)
	}
}

func (c *textureCache) len() int {
	return len(c.entries)
}
