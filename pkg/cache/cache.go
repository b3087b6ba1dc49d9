package cache

import (
	"sync"
	"time"
)

// Cache интерфейс кэша доступности.
// Внедряется как зависимость, чтобы процессную реализацию можно было заменить
// распределенной (внешний key-value store) без изменения вызывающего кода -
// необходимо при запуске сервиса более чем в одном экземпляре.
//
// Кэш - исключительно оптимизация производительности: промах всегда безопасен
// и приводит к полному пересчету. Кэш никогда не является источником истины.
type Cache interface {
	// Get возвращает значение по ключу. Просроченные записи считаются
	// отсутствующими (ленивое вытеснение при чтении).
	Get(key Key) (interface{}, bool)

	// Set сохраняет значение с индивидуальным TTL
	Set(key Key, value interface{}, ttl time.Duration)

	// InvalidateAccount удаляет все записи аккаунта (любого Kind).
	// Вызывается при создании/отмене бронирования.
	InvalidateAccount(accountID int64)

	// Sweep удаляет все просроченные записи, возвращает их количество.
	// Запускается периодически, чтобы ограничить рост памяти.
	Sweep() int
}

// Recorder интерфейс для метрик кэша
type Recorder interface {
	IncCacheHit(kind string)
	IncCacheMiss(kind string)
	AddCacheEvictions(reason string, n int)
	SetCacheEntries(n int)
}

// NopRecorder заглушка метрик (метрики выключены в конфигурации)
type NopRecorder struct{}

func (NopRecorder) IncCacheHit(string)            {}
func (NopRecorder) IncCacheMiss(string)           {}
func (NopRecorder) AddCacheEvictions(string, int) {}
func (NopRecorder) SetCacheEntries(int)           {}

// entry запись кэша с моментом истечения
type entry struct {
	value     interface{}
	expiresAt time.Time
}

// InMemory процессная реализация Cache поверх map с RWMutex.
// Блокировка на запись удерживается только на время удаления/вставки
// нескольких записей, поэтому фоновый Sweep не мешает запросам.
type InMemory struct {
	mu      sync.RWMutex
	entries map[Key]entry
	now     func() time.Time
	rec     Recorder
}

// NewInMemory создает новый процессный кэш
func NewInMemory(rec Recorder) *InMemory {
	return NewInMemoryWithClock(rec, time.Now)
}

// NewInMemoryWithClock создает кэш с управляемыми часами (для тестов)
func NewInMemoryWithClock(rec Recorder, now func() time.Time) *InMemory {
	if rec == nil {
		rec = NopRecorder{}
	}
	return &InMemory{
		entries: make(map[Key]entry),
		now:     now,
		rec:     rec,
	}
}

// Get возвращает значение по ключу, лениво вытесняя просроченные записи
func (c *InMemory) Get(key Key) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.rec.IncCacheMiss(string(key.Kind))
		return nil, false
	}

	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Перепроверяем под write-lock: запись могли успеть перезаписать
		if cur, still := c.entries[key]; still && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
			c.rec.AddCacheEvictions("expired", 1)
			c.rec.SetCacheEntries(len(c.entries))
		}
		c.mu.Unlock()

		c.rec.IncCacheMiss(string(key.Kind))
		return nil, false
	}

	c.rec.IncCacheHit(string(key.Kind))
	return e.value, true
}

// Set сохраняет значение с индивидуальным TTL
func (c *InMemory) Set(key Key, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
	c.rec.SetCacheEntries(len(c.entries))
	c.mu.Unlock()
}

// InvalidateAccount удаляет все записи аккаунта
func (c *InMemory) InvalidateAccount(accountID int64) {
	c.mu.Lock()
	removed := 0
	for key := range c.entries {
		if key.AccountID == accountID {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		c.rec.AddCacheEvictions("invalidated", removed)
		c.rec.SetCacheEntries(len(c.entries))
	}
	c.mu.Unlock()
}

// Sweep удаляет просроченные записи, возвращает их количество
func (c *InMemory) Sweep() int {
	now := c.now()

	c.mu.Lock()
	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		c.rec.AddCacheEvictions("swept", removed)
		c.rec.SetCacheEntries(len(c.entries))
	}
	c.mu.Unlock()

	return removed
}

// Len возвращает текущее количество записей (включая просроченные)
func (c *InMemory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Getter минимальный интерфейс чтения из кэша
type Getter interface {
	Get(key Key) (interface{}, bool)
}

// GetTyped типизированное чтение из кэша.
// Запись с неожиданным типом считается промахом, не ошибкой.
func GetTyped[T any](c Getter, key Key) (T, bool) {
	var zero T

	value, ok := c.Get(key)
	if !ok {
		return zero, false
	}

	typed, ok := value.(T)
	if !ok {
		return zero, false
	}

	return typed, true
}
