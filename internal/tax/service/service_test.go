package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	taxdomain "github.com/snusnumrick/dojoflow/internal/tax/domain"
	taxrepo "github.com/snusnumrick/dojoflow/internal/tax/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) taxdomain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&taxdomain.TaxRate{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(ServiceParam{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  taxrepo.NewRepository(db),
	})
}

func TestCreate_ValidatesRate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, taxdomain.CreateRequest{Name: "GST", Rate: 0.05})
	require.NoError(t, err)
	assert.Equal(t, "GST", created.Name)
	assert.True(t, created.Active)

	_, err = svc.Create(ctx, taxdomain.CreateRequest{Name: "", Rate: 0.05})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidName)

	_, err = svc.Create(ctx, taxdomain.CreateRequest{Name: "Bad", Rate: 1.0})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidTaxRate)

	_, err = svc.Create(ctx, taxdomain.CreateRequest{Name: "Bad", Rate: -0.01})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidTaxRate)
}

func TestSnapshotByIDs_FreezesRates(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	gst, err := svc.Create(ctx, taxdomain.CreateRequest{Name: "GST", Rate: 0.05})
	require.NoError(t, err)
	pst, err := svc.Create(ctx, taxdomain.CreateRequest{Name: "PST", Rate: 0.07})
	require.NoError(t, err)

	snapshots, err := svc.SnapshotByIDs(ctx, []snowflake.ID{gst.ID, pst.ID})
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, "GST", snapshots[0].Name)
	assert.Equal(t, 0.05, snapshots[0].Rate)
	assert.Equal(t, gst.ID, snapshots[0].TaxRateID)
	assert.Equal(t, "PST", snapshots[1].Name)
}

func TestDisable_RemovesFromActiveList(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	gst, err := svc.Create(ctx, taxdomain.CreateRequest{Name: "GST", Rate: 0.05})
	require.NoError(t, err)
	_, err = svc.Create(ctx, taxdomain.CreateRequest{Name: "PST", Rate: 0.07})
	require.NoError(t, err)

	require.NoError(t, svc.Disable(ctx, gst.ID.String()))

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "PST", active[0].Name)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDisable_RejectsUnknownRate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Disable(ctx, "not-an-id"), taxdomain.ErrInvalidID)
	assert.ErrorIs(t, svc.Disable(ctx, "999999999"), taxdomain.ErrNotFound)
}
