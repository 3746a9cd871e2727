//go:build integration

package siteconfig_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"formprefill/internal/siteconfig"
	"formprefill/pkg/platform/sentinel"
	"formprefill/pkg/testutil/containers"
)

type RedisSourceSuite struct {
	suite.Suite
	redis  *containers.RedisContainer
	source *siteconfig.RedisSource
}

func TestRedisSourceSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisSourceSuite))
}

func (s *RedisSourceSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.source = siteconfig.NewRedisSource(s.redis.Client, siteconfig.WithKey("test:sites"))
}

func (s *RedisSourceSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisSourceSuite) TestSaveLoadRoundTripsThroughFinder() {
	ctx := context.Background()
	s.Require().NoError(s.source.Save(ctx, &siteconfig.Site{
		Identifier: "shop",
		Base:       "shop.example.org",
		Prefill:    siteconfig.Prefill{AllowedFields: siteconfig.NewFieldList()},
	}))
	s.Require().NoError(s.source.Save(ctx, &siteconfig.Site{
		Identifier: "main",
		Base:       "www.example.org",
		Prefill: siteconfig.Prefill{
			FormMappings: map[string]map[string]string{"contact": {"phone": "telephone"}},
		},
	}))

	n, err := s.redis.HashLen(ctx, "test:sites")
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	finder := siteconfig.NewFinder(s.source)
	s.Require().NoError(finder.Reload(ctx))
	s.Equal([]string{"main", "shop"}, finder.Identifiers())

	shop := finder.ByHost("shop.example.org")
	s.Require().NotNil(shop)
	fields, ok := shop.AllowedFields()
	s.True(ok, "an explicitly empty allow-list survives storage")
	s.Empty(fields)

	s.Equal("telephone", finder.ByIdentifier("main").FormMapping("contact")["phone"])
}

func (s *RedisSourceSuite) TestSaveRejectsInvalidSite() {
	err := s.source.Save(context.Background(), &siteconfig.Site{})
	s.Error(err)
}

func (s *RedisSourceSuite) TestDelete() {
	ctx := context.Background()
	s.Require().NoError(s.source.Save(ctx, &siteconfig.Site{Identifier: "main"}))

	s.Require().NoError(s.source.Delete(ctx, "main"))
	s.ErrorIs(s.source.Delete(ctx, "main"), sentinel.ErrNotFound)

	sites, err := s.source.Load(ctx)
	s.Require().NoError(err)
	s.Empty(sites)
}
