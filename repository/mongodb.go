package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/BerniceZTT/vet_admin/utils"
)

const (
	// 集合名
	ApiOperationLogsCollection = "apiOperationLogs"
)

// MongoStore 基于 MongoDB 的操作日志存储
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// ConnectMongo 连接 MongoDB 并初始化集合
func ConnectMongo(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	// 设置连接超时
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("连接MongoDB失败: %w", err)
	}

	// 检查连接
	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping MongoDB失败: %w", err)
	}

	s := &MongoStore{client: client, db: client.Database(dbName)}
	utils.Logger.Info().Str("database", dbName).Msg("已连接到MongoDB")

	if err := s.initializeCollections(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// Close 关闭MongoDB连接
func (s *MongoStore) Close(ctx context.Context) {
	if err := s.client.Disconnect(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("断开MongoDB连接失败")
		return
	}
	utils.Logger.Info().Msg("已断开MongoDB连接")
}

// initializeCollections 创建操作日志集合及按时间倒序的索引
func (s *MongoStore) initializeCollections(ctx context.Context) error {
	names, err := s.db.ListCollectionNames(ctx, bson.M{"name": ApiOperationLogsCollection})
	if err != nil {
		return fmt.Errorf("检查集合失败: %w", err)
	}
	if len(names) == 0 {
		if err := s.db.CreateCollection(ctx, ApiOperationLogsCollection); err != nil {
			return fmt.Errorf("创建集合失败: %w", err)
		}
		utils.Logger.Info().Str("collection", ApiOperationLogsCollection).Msg("创建集合成功")
	} else {
		utils.Logger.Info().Str("collection", ApiOperationLogsCollection).Msg("集合已存在")
	}

	_, err = s.logs().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "operationTime", Value: -1}}},
		{Keys: bson.D{{Key: "resource", Value: 1}, {Key: "operationTime", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("创建索引失败: %w", err)
	}
	return nil
}

func (s *MongoStore) logs() *mongo.Collection {
	return s.db.Collection(ApiOperationLogsCollection)
}

// Status 获取数据库状态
func (s *MongoStore) Status(ctx context.Context) (map[string]interface{}, error) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.client.Ping(pingCtx, readpref.Primary()); err != nil {
		return map[string]interface{}{"backend": "mongodb", "connected": false, "error": err.Error()}, err
	}

	count, err := s.logs().CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.Logger.Error().Err(err).Str("collection", ApiOperationLogsCollection).Msg("获取集合计数失败")
		return map[string]interface{}{
			"backend":   "mongodb",
			"connected": true,
			ApiOperationLogsCollection: map[string]interface{}{
				"count": 0,
				"error": err.Error(),
			},
		}, nil
	}
	return map[string]interface{}{
		"backend":   "mongodb",
		"connected": true,
		ApiOperationLogsCollection: map[string]interface{}{
			"count": count,
		},
	}, nil
}

// executeDbOperation 执行数据库操作，可重试的错误按递增间隔重试
func executeDbOperation(ctx context.Context, operation func(ctx context.Context) error, retries int) error {
	if retries <= 0 {
		retries = 3
	}

	var lastErr error
	for i := 0; i < retries; i++ {
		err := operation(ctx)
		if err == nil {
			return nil
		}

		lastErr = err
		utils.Logger.Error().Err(err).Msgf("数据库操作失败，重试 (%d/%d)", i+1, retries)

		// 如果是不可重试的错误，立即返回
		if !isRetryableError(err) {
			break
		}

		// 延迟后重试
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(500*(i+1)) * time.Millisecond):
		}
	}

	return lastErr
}

// MongoDB可重试错误代码
var retryableCodes = map[int32]bool{
	6:     true, // HostUnreachable
	7:     true, // HostNotFound
	89:    true, // NetworkTimeout
	91:    true, // ShutdownInProgress
	189:   true, // PrimarySteppedDown
	10107: true, // NotMaster
	13436: true, // NotMasterNoSlaveOk
	11600: true, // InterruptedAtShutdown
	11602: true, // InterruptedDueToReplStateChange
	10058: true, // ConnectionReset
}

// isRetryableError 判断错误是否可重试
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return retryableCodes[cmdErr.Code]
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	return isNetworkError(err)
}

// 常见网络错误
var networkErrors = []string{
	"connection refused",
	"connection reset",
	"connection closed",
	"no reachable servers",
	"timeout",
	"context deadline exceeded",
	"server selection error",
}

// isNetworkError 检查是否是网络错误
func isNetworkError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, ne := range networkErrors {
		if strings.Contains(msg, ne) {
			return true
		}
	}
	return false
}
