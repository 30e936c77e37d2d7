// Package repository 持久化经网关发起的写操作日志。
package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BerniceZTT/vet_admin/models"
)

// OperationLogQuery 操作日志查询
type OperationLogQuery struct {
	Resource   string
	OperatorID string
	Page       int
	Limit      int
}

// Normalize 页码从 1 开始，每页默认 20 条、最多 200 条
func (q OperationLogQuery) Normalize() OperationLogQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 200 {
		q.Limit = 20
	}
	return q
}

// OperationLogStore 操作日志存储
type OperationLogStore interface {
	Save(ctx context.Context, log *models.OperationLog) error
	List(ctx context.Context, q OperationLogQuery) ([]models.OperationLog, int64, error)
	Purge(ctx context.Context, before time.Time) (int64, error)
	Status(ctx context.Context) (map[string]interface{}, error)
}

// Save 保存操作日志
func (s *MongoStore) Save(ctx context.Context, log *models.OperationLog) error {
	if log.ID.IsZero() {
		log.ID = primitive.NewObjectID()
	}
	return executeDbOperation(ctx, func(ctx context.Context) error {
		_, err := s.logs().InsertOne(ctx, log)
		return err
	}, 3)
}

// List 按时间倒序分页查询
func (s *MongoStore) List(ctx context.Context, q OperationLogQuery) ([]models.OperationLog, int64, error) {
	q = q.Normalize()
	filter := bson.M{}
	if q.Resource != "" {
		filter["resource"] = q.Resource
	}
	if q.OperatorID != "" {
		filter["operatorId"] = q.OperatorID
	}

	total, err := s.logs().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "operationTime", Value: -1}}).
		SetSkip(int64((q.Page - 1) * q.Limit)).
		SetLimit(int64(q.Limit))

	cursor, err := s.logs().Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	logs := []models.OperationLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// Purge 删除 before 之前的日志
func (s *MongoStore) Purge(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.logs().DeleteMany(ctx, bson.M{"operationTime": bson.M{"$lt": before}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// MemoryStore 未配置 MongoDB 时使用的内存存储，最多保留 capacity 条
type MemoryStore struct {
	mu       sync.Mutex
	logs     []models.OperationLog
	capacity int
}

// NewMemoryStore 创建内存存储
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryStore{capacity: capacity}
}

// Save 保存操作日志，超过容量时丢弃最旧的
func (m *MemoryStore) Save(_ context.Context, log *models.OperationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if log.ID.IsZero() {
		log.ID = primitive.NewObjectID()
	}
	m.logs = append(m.logs, *log)
	if over := len(m.logs) - m.capacity; over > 0 {
		m.logs = append([]models.OperationLog(nil), m.logs[over:]...)
	}
	return nil
}

// List 按时间倒序分页查询
func (m *MemoryStore) List(_ context.Context, q OperationLogQuery) ([]models.OperationLog, int64, error) {
	q = q.Normalize()

	m.mu.Lock()
	matched := make([]models.OperationLog, 0, len(m.logs))
	for _, l := range m.logs {
		if q.Resource != "" && l.Resource != q.Resource {
			continue
		}
		if q.OperatorID != "" && l.OperatorID != q.OperatorID {
			continue
		}
		matched = append(matched, l)
	}
	m.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].OperationTime.After(matched[j].OperationTime)
	})

	total := int64(len(matched))
	start := (q.Page - 1) * q.Limit
	if start >= len(matched) {
		return []models.OperationLog{}, total, nil
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// Purge 删除 before 之前的日志
func (m *MemoryStore) Purge(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.logs[:0]
	var removed int64
	for _, l := range m.logs {
		if l.OperationTime.Before(before) {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	m.logs = kept
	return removed, nil
}

// Status 存储状态
func (m *MemoryStore) Status(_ context.Context) (map[string]interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]interface{}{
		"backend":   "memory",
		"connected": true,
		ApiOperationLogsCollection: map[string]interface{}{
			"count":    len(m.logs),
			"capacity": m.capacity,
		},
	}, nil
}
