package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// ======================================================
// SLOT CACHE (somente leitura / best-effort)
// ======================================================
//
// Guarda os horários já ocupados de um cuidador por dia, para a
// projeção consumida pelos clientes antes de enviar um booking.
// Nunca participa da decisão de conflito: o repositório decide
// sempre contra o banco; aqui só evitamos releituras do read path.

const slotTTL = 30 * time.Second

type SlotCache struct {
	rdb *redis.Client
}

// NewSlotCache devolve um cache desativado (nil) quando REDIS_URL
// não está definido; todos os métodos toleram o estado desativado.
func NewSlotCache(redisURL string) *SlotCache {
	if redisURL == "" {
		return &SlotCache{}
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("slot cache disabled: %v", err)
		return &SlotCache{}
	}

	return &SlotCache{rdb: redis.NewClient(opt)}
}

func (c *SlotCache) key(caregiverID string, day time.Time) string {
	return fmt.Sprintf("booked_slots:%s:%s", caregiverID, day.Format("2006-01-02"))
}

func (c *SlotCache) Get(
	ctx context.Context,
	caregiverID string,
	day time.Time,
) ([]time.Time, bool) {

	if c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, c.key(caregiverID, day)).Result()
	if err != nil {
		return nil, false
	}

	var slots []time.Time
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, false
	}

	return slots, true
}

func (c *SlotCache) Set(
	ctx context.Context,
	caregiverID string,
	day time.Time,
	slots []time.Time,
) {

	if c.rdb == nil {
		return
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, c.key(caregiverID, day), raw, slotTTL).Err(); err != nil {
		log.Printf("slot cache set failed: %v", err)
	}
}

// Invalidate derruba a entrada do dia após qualquer escrita que
// mude a ocupação (booking, cancelamento).
func (c *SlotCache) Invalidate(
	ctx context.Context,
	caregiverID string,
	day time.Time,
) {

	if c.rdb == nil {
		return
	}

	if err := c.rdb.Del(ctx, c.key(caregiverID, day)).Err(); err != nil {
		log.Printf("slot cache invalidate failed: %v", err)
	}
}
