/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package redlock

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const unlockScript = "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end"

// ErrLockHeld is returned when another holder owns the key.
var ErrLockHeld = errors.New("lock is already held")

// Locker guards a single Redis key. Every acquisition writes a fresh token so
// that only the holder can release it.
type Locker struct {
	client   redis.UniversalClient
	key      string
	ttl      time.Duration
	wait     time.Duration
	newToken func() string
}

// NewLocker returns a lock on key. ttl bounds how long a crashed holder keeps
// the key; wait bounds how long Acquire retries.
func NewLocker(client redis.UniversalClient, key string, ttl, wait time.Duration) *Locker {
	return &Locker{
		client:   client,
		key:      key,
		ttl:      ttl,
		wait:     wait,
		newToken: uuid.NewString,
	}
}

func (l *Locker) lock(ctx context.Context, token string) error {
	success, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return err
	}
	if !success {
		return fmt.Errorf("key %s: %w", l.key, ErrLockHeld)
	}
	return nil
}

func (l *Locker) unlock(ctx context.Context, token string) error {
	result, err := l.client.Eval(ctx, unlockScript, []string{l.key}, token).Result()
	if err != nil {
		return err
	}
	if result == int64(0) {
		return fmt.Errorf("unlock failed, either lock expired or you're not the lock holder for key %s", l.key)
	}
	return nil
}

// Acquire blocks until the lock is taken, the wait timeout passes or ctx is
// done. The returned func releases the lock.
func (l *Locker) Acquire(ctx context.Context) (func(context.Context) error, error) {
	token := l.newToken()
	deadline := time.Now().Add(l.wait)
	for {
		err := l.lock(ctx, token)
		if err == nil {
			return func(ctx context.Context) error { return l.unlock(ctx, token) }, nil
		}
		if !errors.Is(err, ErrLockHeld) {
			return nil, err
		}
		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("failed to acquire lock for key %s within the wait timeout", l.key)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(10+rand.Intn(90)) * time.Millisecond):
		}
	}
}
