package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Config 控制 Neo4j 连接参数。
type Config struct {
	URI                  string
	Username             string
	Password             string
	Database             string
	MaxConnectionPool    int
	ConnectionTimeoutSec int
	// Lazy 为 true 时创建时不校验连通性，连接错误推迟到首次写入。
	Lazy bool
}

// Session 是一个写会话，Run 的每条语句各自自动提交。
type Session interface {
	Run(ctx context.Context, query string, params map[string]any) error
	Close(ctx context.Context) error
}

// SessionFactory 创建写会话，便于测试替换实现。
type SessionFactory interface {
	WriteSession(ctx context.Context) Session
}

// Client 封装 Neo4j Driver，提供最小写接口。
type Client struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewClient 创建一个新的 Neo4j 客户端。
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("neo4j uri 不能为空")
	}
	auth := neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(config *neo4j.Config) {
		if cfg.MaxConnectionPool > 0 {
			config.MaxConnectionPoolSize = cfg.MaxConnectionPool
		}
		if cfg.ConnectionTimeoutSec > 0 {
			config.SocketConnectTimeout = time.Duration(cfg.ConnectionTimeoutSec) * time.Second
		}
	})
	if err != nil {
		return nil, fmt.Errorf("创建 neo4j driver 失败: %w", err)
	}
	if cfg.Lazy {
		return &Client{driver: driver, database: cfg.Database}, nil
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4j 无法连通: %w", err)
	}
	return &Client{driver: driver, database: cfg.Database}, nil
}

// Close 关闭连接。
func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.driver == nil {
		return nil
	}
	return c.driver.Close(ctx)
}

// Driver 返回底层 driver，供只读查询复用连接池。
func (c *Client) Driver() neo4j.DriverWithContext {
	return c.driver
}

// Database 返回目标数据库名。
func (c *Client) Database() string {
	return c.database
}

// WriteSession 打开一个写会话，调用方负责 Close。
func (c *Client) WriteSession(ctx context.Context) Session {
	sess := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database, AccessMode: neo4j.AccessModeWrite})
	return &autoCommitSession{sess: sess}
}

// RunWrite 在托管写事务中执行一条语句。
func (c *Client) RunWrite(ctx context.Context, query string, params map[string]any) error {
	sess := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database, AccessMode: neo4j.AccessModeWrite})
	defer sess.Close(ctx)
	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, runErr := tx.Run(ctx, query, params)
		return nil, runErr
	})
	if err != nil {
		return fmt.Errorf("执行写入失败: %w", err)
	}
	return nil
}

type autoCommitSession struct {
	sess neo4j.SessionWithContext
}

func (s *autoCommitSession) Run(ctx context.Context, query string, params map[string]any) error {
	res, err := s.sess.Run(ctx, query, params)
	if err != nil {
		return fmt.Errorf("执行语句失败: %w", err)
	}
	return consume(ctx, res)
}

func (s *autoCommitSession) Close(ctx context.Context) error {
	return s.sess.Close(ctx)
}

func consume(ctx context.Context, result neo4j.ResultWithContext) error {
	for result.Next(ctx) {
		// 消费结果即可
	}
	return result.Err()
}
