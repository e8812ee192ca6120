package cache_test

import (
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/khoa-math/kenum/pkg/kenum/cache"
)

func TestCache(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cache Suite")
}

func behavesLikeACache(newCache func() cache.Cache[string]) {
	var c cache.Cache[string]

	BeforeEach(func() {
		c = newCache()
	})

	AfterEach(func() {
		c = nil
	})

	Describe("Get", func() {
		It("should return false if the key is not found", func() {
			value, found := c.Get("a")
			Expect(found).To(BeFalse())
			Expect(value).To(BeEmpty())
		})

		It("should return true and the value if the key is found", func() {
			c.Set("a", "value")
			value, found := c.Get("a")
			Expect(found).To(BeTrue())
			Expect(value).To(Equal("value"))
		})
	})

	Describe("Set", func() {
		It("should overwrite the value for the key", func() {
			c.Set("a", "value1")
			c.Set("a", "value2")
			value, found := c.Get("a")
			Expect(found).To(BeTrue())
			Expect(value).To(Equal("value2"))
			Expect(c.Len()).To(Equal(1))
		})
	})

	Describe("Delete", func() {
		It("should not fail if the key is not found", func() {
			c.Delete("a")
		})

		It("should delete the value for the key", func() {
			c.Set("a", "value")
			c.Delete("a")
			value, found := c.Get("a")
			Expect(found).To(BeFalse())
			Expect(value).To(BeEmpty())
			Expect(c.Len()).To(Equal(0))
		})
	})

	Describe("Iterate", func() {
		It("should iterate over all key-value pairs in the cache", func() {
			c.Set("a", "value1")
			c.Set("b", "value2")
			c.Set("c", "value3")

			var result []string
			err := c.Iterate(func(key cache.Key, value string) error {
				result = append(result, string(key)+":"+value)
				return nil
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(ConsistOf("a:value1", "b:value2", "c:value3"))
		})

		It("should stop on the first error", func() {
			c.Set("a", "value1")
			c.Set("b", "value2")

			calls := 0
			err := c.Iterate(func(key cache.Key, value string) error {
				calls++
				return errors.New("stop")
			})
			Expect(err).To(MatchError("stop"))
			Expect(calls).To(Equal(1))
		})
	})
}

var _ = Describe("MapCache", func() {
	behavesLikeACache(func() cache.Cache[string] {
		return cache.NewMapCache[string]()
	})
})

var _ = Describe("LRUCache", func() {
	behavesLikeACache(func() cache.Cache[string] {
		c, err := cache.NewLRUCache[string](16)
		Expect(err).ToNot(HaveOccurred())
		return c
	})

	It("should evict the least recently used entry", func() {
		c, err := cache.NewLRUCache[string](2)
		Expect(err).ToNot(HaveOccurred())
		c.Set("a", "value1")
		c.Set("b", "value2")
		_, _ = c.Get("a")
		c.Set("c", "value3")

		_, found := c.Get("b")
		Expect(found).To(BeFalse())
		_, found = c.Get("a")
		Expect(found).To(BeTrue())
		Expect(c.Len()).To(Equal(2))
	})

	It("should reject a non-positive size", func() {
		_, err := cache.NewLRUCache[string](0)
		Expect(err).To(HaveOccurred())
	})
})
