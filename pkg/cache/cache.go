package cache

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrKeyExists = errors.New("key already exists in cache")
)

// Cache is a weight bounded LRU cache
type Cache[V any] interface {
	SetVerbose(verbose bool)
	GetWeight() int
	GetBudget() int
	Insert(key string, value V, weight int) error
	Retrieve(key string) (V, bool)
	Clear()
}

type cacheNode[V any] struct {
	next   *cacheNode[V]
	prev   *cacheNode[V]
	key    string
	value  V
	weight int
}

// cache keeps nodes in a doubly linked list ordered from most to least
// recently used, with a map for lookups by key
type cache[V any] struct {
	log *logrus.Entry

	mutex   sync.Mutex
	head    *cacheNode[V]
	tail    *cacheNode[V]
	lookup  map[string]*cacheNode[V]
	weight  int
	budget  int
	verbose bool
}

// NewCache returns a new cache with a given weight budget
func NewCache[V any](budget int) Cache[V] {
	return &cache[V]{
		log:    logrus.StandardLogger().WithField("type", "cache"),
		lookup: make(map[string]*cacheNode[V]),
		budget: budget,
	}
}

// SetVerbose controls eviction logging
func (c *cache[V]) SetVerbose(verbose bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.verbose = verbose
}

func (c *cache[V]) GetWeight() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.weight
}

func (c *cache[V]) GetBudget() int {
	return c.budget
}

// Insert adds a new item to the cache, evicting the least recently used items
// until the cache is within its budget. Inserting an existing key returns
// ErrKeyExists.
func (c *cache[V]) Insert(key string, value V, weight int) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, found := c.lookup[key]; found {
		return ErrKeyExists
	}

	node := &cacheNode[V]{
		key:    key,
		value:  value,
		weight: weight,
		next:   c.head,
	}

	if c.head != nil {
		c.head.prev = node
	}
	c.head = node
	if c.tail == nil {
		c.tail = node
	}

	c.lookup[key] = node
	c.weight += weight

	for c.weight > c.budget && c.tail != nil {
		evicted := c.tail
		if evicted.prev != nil {
			evicted.prev.next = nil
		} else {
			c.head = nil
		}
		c.tail = evicted.prev
		c.weight -= evicted.weight
		delete(c.lookup, evicted.key)

		if c.verbose {
			c.log.WithFields(logrus.Fields{
				"key":          evicted.key,
				"weight":       evicted.weight,
				"spare_weight": c.budget - c.weight,
			}).Debug("cache eviction")
		}
	}

	return nil
}

// Retrieve fetches an item by key, marking it as most recently used
func (c *cache[V]) Retrieve(key string) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	node, found := c.lookup[key]
	if !found {
		var zero V
		return zero, false
	}

	if node != c.head {
		if node.next != nil {
			node.next.prev = node.prev
		}
		if node.prev != nil {
			node.prev.next = node.next
		}
		if node == c.tail {
			c.tail = node.prev
		}

		node.next = c.head
		node.prev = nil
		c.head.prev = node
		c.head = node
	}

	return node.value, true
}

// Clear removes all items from the cache
func (c *cache[V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.head = nil
	c.tail = nil
	c.lookup = make(map[string]*cacheNode[V])
	c.weight = 0
}
