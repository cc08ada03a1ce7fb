package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"user_portal/internal/observability"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const usernamesKey = "users:usernames"

// Build key holding every record stored under username, oldest first
func UserKey(username string) string {
	return fmt.Sprintf("user:%s", username)
}

// redisDocument is the stored form of a User. Unlike User it serialises the password.
type redisDocument struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (d *redisDocument) toUser() *User {
	return &User{
		ID:        d.ID,
		Name:      d.Name,
		Username:  d.Username,
		Password:  d.Password,
		Role:      d.Role,
		CreatedAt: d.CreatedAt,
	}
}

// RedisUserRepository keeps each username as a list of JSON documents, so
// repeated creates for one username append instead of overwriting.
type RedisUserRepository struct {
	client  *redis.Client
	metrics *observability.Metrics
}

func NewRedisUserRepository(client *redis.Client, metrics *observability.Metrics) UserRepositoryInterface {
	return &RedisUserRepository{
		client:  client,
		metrics: metrics,
	}
}

func (r *RedisUserRepository) Create(ctx context.Context, user *User) error {
	defer r.metrics.ObserveStoreOperation("redis", "create", time.Now())

	data, err := json.Marshal(&redisDocument{
		ID:        user.ID,
		Name:      user.Name,
		Username:  user.Username,
		Password:  user.Password,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode user %s: %w", user.Username, err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, UserKey(user.Username), data)
		pipe.SAdd(ctx, usernamesKey, user.Username)
		return nil
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to create user")
		return fmt.Errorf("store user %s: %w", user.Username, err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	}).Info("User created successfully")

	return nil
}

func (r *RedisUserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	defer r.metrics.ObserveStoreOperation("redis", "get", time.Now())

	val, err := r.client.LIndex(ctx, UserKey(username), 0).Result()
	if errors.Is(err, redis.Nil) {
		logrus.WithField("username", username).Debug("User not found")
		return nil, nil
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to get user by username")
		return nil, fmt.Errorf("load user %s: %w", username, err)
	}

	var doc redisDocument
	if err := json.Unmarshal([]byte(val), &doc); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", username, err)
	}

	return doc.toUser(), nil
}

func (r *RedisUserRepository) List(ctx context.Context) ([]*UserSummary, error) {
	defer r.metrics.ObserveStoreOperation("redis", "list", time.Now())

	usernames, err := r.client.SMembers(ctx, usernamesKey).Result()
	if err != nil {
		logrus.WithError(err).Error("Failed to list usernames")
		return nil, fmt.Errorf("list usernames: %w", err)
	}
	if len(usernames) == 0 {
		return []*UserSummary{}, nil
	}

	cmds := make([]*redis.StringSliceCmd, len(usernames))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, username := range usernames {
			cmds[i] = pipe.LRange(ctx, UserKey(username), 0, -1)
		}
		return nil
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to list users")
		return nil, fmt.Errorf("list users: %w", err)
	}

	docs := make([]*redisDocument, 0, len(usernames))
	for _, cmd := range cmds {
		for _, val := range cmd.Val() {
			var doc redisDocument
			if err := json.Unmarshal([]byte(val), &doc); err != nil {
				logrus.WithError(err).Error("Error decoding user document")
				continue
			}
			docs = append(docs, &doc)
		}
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.Before(docs[j].CreatedAt)
	})

	users := make([]*UserSummary, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.toUser().Summary())
	}

	return users, nil
}

func (r *RedisUserRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
