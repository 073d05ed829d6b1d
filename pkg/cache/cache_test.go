package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/frankban/quicktest"
	"github.com/redis/go-redis/v9"

	"github.com/instill-ai/medical-backend/pkg/datamodel"
)

func TestResultCache(t *testing.T) {
	c := quicktest.New(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	rc := NewResultCache(client, time.Minute)
	key := Key("predict_cam", "pneumonia", "abc")
	c.Assert(key, quicktest.Equals, "predict:predict_cam:pneumonia:abc")

	c.Run("miss", func(c *quicktest.C) {
		e, err := rc.Get(ctx, key)
		c.Assert(err, quicktest.IsNil)
		c.Assert(e, quicktest.IsNil)
	})

	c.Run("hit", func(c *quicktest.C) {
		p := 0.25
		c.Assert(rc.Set(ctx, key, &Entry{PNG: []byte{1, 2, 3}, Probability: &p}), quicktest.IsNil)

		e, err := rc.Get(ctx, key)
		c.Assert(err, quicktest.IsNil)
		c.Assert(e.PNG, quicktest.DeepEquals, []byte{1, 2, 3})
		c.Assert(*e.Probability, quicktest.Equals, 0.25)
		c.Assert(e.BBox, quicktest.IsNil)
	})

	c.Run("box", func(c *quicktest.C) {
		box := datamodel.BBox{X1: 10, Y1: 20, X2: 100, Y2: 200}
		boxKey := Key("predict_cardiac", "cardiac", "abc")
		c.Assert(rc.Set(ctx, boxKey, &Entry{PNG: []byte{4}, BBox: &box}), quicktest.IsNil)

		e, err := rc.Get(ctx, boxKey)
		c.Assert(err, quicktest.IsNil)
		c.Assert(*e.BBox, quicktest.Equals, box)
		c.Assert(e.Probability, quicktest.IsNil)
	})

	c.Run("expiry", func(c *quicktest.C) {
		mr.FastForward(2 * time.Minute)
		e, err := rc.Get(ctx, key)
		c.Assert(err, quicktest.IsNil)
		c.Assert(e, quicktest.IsNil)
	})
}

func TestResultCache_Nil(t *testing.T) {
	c := quicktest.New(t)

	var rc *ResultCache
	c.Assert(rc.Set(context.Background(), "k", &Entry{}), quicktest.IsNil)
	e, err := rc.Get(context.Background(), "k")
	c.Assert(err, quicktest.IsNil)
	c.Assert(e, quicktest.IsNil)
}
