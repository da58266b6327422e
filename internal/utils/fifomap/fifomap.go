package fifomap

import (
	"container/list"
	"sync"
)

// FIFOMap is a bounded map that evicts its oldest entry once full.
type FIFOMap[K comparable, V any] struct {
	maxSize  int
	elements *list.List
	items    map[K]*list.Element
	lock     sync.RWMutex
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

func NewFIFOMap[K comparable, V any](maxSize int) *FIFOMap[K, V] {
	if maxSize <= 0 {
		panic("maxSize must be positive")
	}
	return &FIFOMap[K, V]{
		maxSize:  maxSize,
		elements: list.New(),
		items:    make(map[K]*list.Element),
	}
}

// Set stores value under key. Updating a key moves it to the front.
func (m *FIFOMap[K, V]) Set(key K, value V) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if elem, exists := m.items[key]; exists {
		m.elements.MoveToFront(elem)
		elem.Value.(*entry[K, V]).value = value
		return
	}

	if m.elements.Len() >= m.maxSize {
		if oldest := m.elements.Back(); oldest != nil {
			delete(m.items, oldest.Value.(*entry[K, V]).key)
			m.elements.Remove(oldest)
		}
	}

	m.items[key] = m.elements.PushFront(&entry[K, V]{key, value})
}

func (m *FIFOMap[K, V]) Get(key K) (V, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if elem, exists := m.items[key]; exists {
		return elem.Value.(*entry[K, V]).value, true
	}
	var zero V
	return zero, false
}

func (m *FIFOMap[K, V]) Delete(key K) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if elem, exists := m.items[key]; exists {
		m.elements.Remove(elem)
		delete(m.items, key)
	}
}

// Newest returns up to limit values, newest first. A limit of zero or less
// returns everything.
func (m *FIFOMap[K, V]) Newest(limit int) []V {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if limit <= 0 || limit > m.elements.Len() {
		limit = m.elements.Len()
	}
	result := make([]V, 0, limit)
	for elem := m.elements.Front(); elem != nil && len(result) < limit; elem = elem.Next() {
		result = append(result, elem.Value.(*entry[K, V]).value)
	}
	return result
}

func (m *FIFOMap[K, V]) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.elements.Len()
}

func (m *FIFOMap[K, V]) Clear() {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.elements = list.New()
	m.items = make(map[K]*list.Element)
}
