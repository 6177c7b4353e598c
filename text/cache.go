package text

import (
	"container/list"

	"github.com/richinsley/tinygl/graphics"
	"github.com/richinsley/tinygl/sprite"
)

// DefaultCacheSize bounds how many rendered strings stay on the GPU.
const DefaultCacheSize = 64

// Label is a rendered string uploaded as a texture.
type Label struct {
	Texture graphics.Texture
	Width   int
	Height  int
	Descent int
}

type key struct {
	s    string
	size float64
}

type entry struct {
	key   key
	label Label
}

// Cache keeps the most recently drawn labels, deleting the textures of
// the least recently used ones once it is full.
type Cache struct {
	dev   graphics.Device
	limit int
	order *list.List
	items map[key]*list.Element
}

// NewCache returns a cache holding at most limit labels.
func NewCache(dev graphics.Device, limit int) *Cache {
	if limit <= 0 {
		limit = DefaultCacheSize
	}
	return &Cache{
		dev:   dev,
		limit: limit,
		order: list.New(),
		items: make(map[key]*list.Element),
	}
}

// Get returns the label for s at size, rasterizing and uploading it on a
// miss.
func (c *Cache) Get(s string, size float64) (Label, error) {
	k := key{s, size}
	if el, ok := c.items[k]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*entry).label, nil
	}

	bm, err := Rasterize(s, size)
	if err != nil {
		return Label{}, err
	}
	tex, err := c.dev.NewTexture(sprite.FlipVertical(bm.Image))
	if err != nil {
		return Label{}, err
	}
	label := Label{
		Texture: tex,
		Width:   bm.Image.Rect.Dx(),
		Height:  bm.Image.Rect.Dy(),
		Descent: bm.Descent,
	}
	c.items[k] = c.order.PushFront(&entry{key: k, label: label})
	for c.order.Len() > c.limit {
		c.evict(c.order.Back())
	}
	return label, nil
}

func (c *Cache) evict(el *list.Element) {
	e := c.order.Remove(el).(*entry)
	delete(c.items, e.key)
	c.dev.DeleteTexture(e.label.Texture)
}

// Len is the number of cached labels.
func (c *Cache) Len() int {
	return c.order.Len()
}

// Destroy deletes every cached texture.
func (c *Cache) Destroy() {
	for c.order.Len() > 0 {
		c.evict(c.order.Back())
	}
}
