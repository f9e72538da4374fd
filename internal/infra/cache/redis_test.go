package cache_test

import (
	"context"
	"errors"
	"push-registrar/internal/infra/cache"
	mockcache "push-registrar/test/unit/doubles/infra/cache"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/mock/gomock"
)

var _ = ginkgo.Describe("RedisCache", func() {
	var (
		redisCache      *cache.RedisCache
		mockCacheClient *mockcache.MockCacheClient
		ctrl            *gomock.Controller
		ctx             context.Context
	)

	ginkgo.BeforeEach(func() {
		ctrl = gomock.NewController(ginkgo.GinkgoT())
		mockCacheClient = mockcache.NewMockCacheClient(ctrl)
		redisCache = cache.NewRedisCacheWithClient(mockCacheClient, nil)
		ctx = context.Background()
	})

	stringCmd := func(key string, value any) *redis.StringCmd {
		data, err := msgpack.Marshal(value)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		cmd := redis.NewStringCmd(ctx, "get", key)
		cmd.SetVal(string(data))
		return cmd
	}

	ginkgo.Context("Set", func() {
		ginkgo.It("should store the msgpack encoding with the given TTL", func() {
			mockCacheClient.EXPECT().
				Set(gomock.Any(), "key", gomock.Any(), time.Minute).
				DoAndReturn(func(_ context.Context, _ string, value any, _ time.Duration) *redis.StatusCmd {
					var decoded string
					gomega.Expect(msgpack.Unmarshal(value.([]byte), &decoded)).To(gomega.Succeed())
					gomega.Expect(decoded).To(gomega.Equal("value"))
					return redis.NewStatusCmd(ctx, "OK")
				})

			gomega.Expect(redisCache.Set(ctx, "key", "value", time.Minute)).To(gomega.BeTrue())
		})

		ginkgo.It("should report failure when redis rejects the write", func() {
			cmd := redis.NewStatusCmd(ctx)
			cmd.SetErr(errors.New("READONLY"))
			mockCacheClient.EXPECT().Set(gomock.Any(), "key", gomock.Any(), time.Duration(0)).Return(cmd)

			gomega.Expect(redisCache.Set(ctx, "key", "value", 0)).To(gomega.BeFalse())
		})
	})

	ginkgo.Context("Get", func() {
		ginkgo.It("should decode a stored value", func() {
			mockCacheClient.EXPECT().Get(gomock.Any(), "key").Return(stringCmd("key", "value"))

			value, found := redisCache.Get(ctx, "key")
			gomega.Expect(found).To(gomega.BeTrue())
			gomega.Expect(value).To(gomega.Equal("value"))
		})

		ginkgo.It("should report a missing key", func() {
			cmd := redis.NewStringCmd(ctx, "get", "missing")
			cmd.SetErr(redis.Nil)
			mockCacheClient.EXPECT().Get(gomock.Any(), "missing").Return(cmd)

			value, found := redisCache.Get(ctx, "missing")
			gomega.Expect(found).To(gomega.BeFalse())
			gomega.Expect(value).To(gomega.BeNil())
		})

		ginkgo.It("should treat undecodable data as missing", func() {
			cmd := redis.NewStringCmd(ctx, "get", "key")
			cmd.SetVal("\xc1")
			mockCacheClient.EXPECT().Get(gomock.Any(), "key").Return(cmd)

			_, found := redisCache.Get(ctx, "key")
			gomega.Expect(found).To(gomega.BeFalse())
		})
	})

	ginkgo.Context("Delete", func() {
		ginkgo.It("should delete the key", func() {
			mockCacheClient.EXPECT().Del(gomock.Any(), "key").Return(redis.NewIntCmd(ctx))

			redisCache.Delete(ctx, "key")
		})
	})

	ginkgo.Context("GetOrSet", func() {
		ginkgo.It("should load and store a missing value", func() {
			missing := redis.NewStringCmd(ctx, "get", "lazy")
			missing.SetErr(redis.Nil)
			mockCacheClient.EXPECT().Get(gomock.Any(), "lazy").Return(missing)
			mockCacheClient.EXPECT().Set(gomock.Any(), "lazy", gomock.Any(), time.Hour).Return(redis.NewStatusCmd(ctx, "OK"))

			value, err := redisCache.GetOrSet(ctx, "lazy", time.Hour, func() (any, error) {
				return "loaded", nil
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(value).To(gomega.Equal("loaded"))
		})

		ginkgo.It("should not call the loader for a cached value", func() {
			mockCacheClient.EXPECT().Get(gomock.Any(), "lazy").Return(stringCmd("lazy", "cached"))

			value, err := redisCache.GetOrSet(ctx, "lazy", time.Hour, func() (any, error) {
				ginkgo.Fail("loader must not run")
				return nil, nil
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(value).To(gomega.Equal("cached"))
		})
	})

	ginkgo.Context("Ping", func() {
		ginkgo.It("should surface connection errors", func() {
			cmd := redis.NewStatusCmd(ctx)
			cmd.SetErr(errors.New("connection refused"))
			mockCacheClient.EXPECT().Ping(gomock.Any()).Return(cmd)

			gomega.Expect(redisCache.Ping(ctx)).To(gomega.MatchError("connection refused"))
		})
	})
})
