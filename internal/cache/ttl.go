// Package cache es un cache en memoria con TTL para respuestas JSON ya
// serializadas (lista de pacientes, agenda del día) y para contadores chicos
// como los intentos de login.
package cache

import (
	"sync"
	"time"
)

type TTL struct {
	mu    sync.RWMutex
	items map[string]item
	ttl   time.Duration
}

type item struct {
	data []byte
	exp  time.Time
}

// New crea el cache; las entradas expiran pasada la duración dada.
func New(ttl time.Duration) *TTL {
	c := &TTL{items: make(map[string]item), ttl: ttl}
	go c.cleanup()
	return c
}

func (c *TTL) cleanup() {
	tick := time.NewTicker(c.ttl / 2)
	defer tick.Stop()
	for range tick.C {
		c.mu.Lock()
		now := time.Now()
		for k, v := range c.items {
			if v.exp.Before(now) {
				delete(c.items, k)
			}
		}
		c.mu.Unlock()
	}
}

// Get devuelve el valor si existe y no expiró; si no, nil.
func (c *TTL) Get(key string) []byte {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || it.exp.Before(time.Now()) {
		return nil
	}
	return it.data
}

// Set guarda el valor con el TTL del cache.
func (c *TTL) Set(key string, value []byte) {
	exp := time.Now().Add(c.ttl)
	c.mu.Lock()
	c.items[key] = item{data: value, exp: exp}
	c.mu.Unlock()
}

// Delete elimina la clave.
func (c *TTL) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// DeletePrefix elimina todas las claves con el prefijo dado (ej. "pacientes:"
// después de un alta para invalidar los listados).
func (c *TTL) DeletePrefix(prefix string) {
	c.mu.Lock()
	for k := range c.items {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.items, k)
		}
	}
	c.mu.Unlock()
}

// Incr incrementa un contador con vida propia (se usa para limitar intentos
// de login). Devuelve el valor después de incrementar.
func (c *TTL) Incr(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	if it, ok := c.items[key]; ok && !it.exp.Before(time.Now()) && len(it.data) > 0 {
		n = int(it.data[0])
	}
	n++
	if n > 255 {
		n = 255
	}
	c.items[key] = item{data: []byte{byte(n)}, exp: time.Now().Add(c.ttl)}
	return n
}
