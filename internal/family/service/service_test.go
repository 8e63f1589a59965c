package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	familydomain "github.com/snusnumrick/dojoflow/internal/family/domain"
	familyrepo "github.com/snusnumrick/dojoflow/internal/family/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) familydomain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&familydomain.Family{},
		&familydomain.Student{},
		&familydomain.BeltAward{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(ServiceParam{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  familyrepo.NewRepository(db),
	})
}

func createFamily(t *testing.T, svc familydomain.Service) *familydomain.Family {
	t.Helper()
	family, err := svc.CreateFamily(context.Background(), familydomain.CreateFamilyRequest{
		Name:  "Tanaka",
		Email: "tanaka@example.com",
	})
	require.NoError(t, err)
	return family
}

func TestCreateFamily_Validates(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	family := createFamily(t, svc)
	assert.Equal(t, "Tanaka", family.Name)

	_, err := svc.CreateFamily(ctx, familydomain.CreateFamilyRequest{Name: "", Email: "a@b.c"})
	assert.ErrorIs(t, err, familydomain.ErrInvalidName)

	_, err = svc.CreateFamily(ctx, familydomain.CreateFamilyRequest{Name: "X", Email: "not-an-email"})
	assert.ErrorIs(t, err, familydomain.ErrInvalidEmail)
}

func TestAddStudent_RequiresExistingFamily(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	family := createFamily(t, svc)

	student, err := svc.AddStudent(ctx, familydomain.AddStudentRequest{
		FamilyID:  family.ID.String(),
		FirstName: "Yuki",
		LastName:  "Tanaka",
		BirthDate: time.Date(2015, 3, 12, 0, 0, 0, 0, time.UTC),
		Gender:    familydomain.GenderFemale,
	})
	require.NoError(t, err)
	assert.Equal(t, family.ID, student.FamilyID)

	_, err = svc.AddStudent(ctx, familydomain.AddStudentRequest{
		FamilyID:  "999999999",
		FirstName: "Yuki",
		LastName:  "Tanaka",
		BirthDate: time.Date(2015, 3, 12, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, familydomain.ErrNotFound)

	_, err = svc.AddStudent(ctx, familydomain.AddStudentRequest{
		FamilyID:  family.ID.String(),
		FirstName: "Yuki",
		LastName:  "Tanaka",
		BirthDate: time.Now().Add(24 * time.Hour),
	})
	assert.ErrorIs(t, err, familydomain.ErrInvalidBirthDate)
}

func TestAddStudent_CoercesUnknownGender(t *testing.T) {
	svc := newService(t)
	family := createFamily(t, svc)

	student, err := svc.AddStudent(context.Background(), familydomain.AddStudentRequest{
		FamilyID:  family.ID.String(),
		FirstName: "Kenji",
		LastName:  "Tanaka",
		BirthDate: time.Date(2012, 7, 1, 0, 0, 0, 0, time.UTC),
		Gender:    familydomain.Gender("unknown"),
	})
	require.NoError(t, err)
	assert.Equal(t, familydomain.GenderOther, student.Gender)
}

func TestBeltHistory_OrderedByAwardDate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	family := createFamily(t, svc)

	student, err := svc.AddStudent(ctx, familydomain.AddStudentRequest{
		FamilyID:  family.ID.String(),
		FirstName: "Yuki",
		LastName:  "Tanaka",
		BirthDate: time.Date(2015, 3, 12, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	white := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	yellow := time.Date(2024, 9, 20, 0, 0, 0, 0, time.UTC)

	// Award out of order; history must come back chronological.
	_, err = svc.AwardBelt(ctx, familydomain.AwardBeltRequest{
		StudentID: student.ID.String(),
		Rank:      "Yellow Belt",
		AwardedAt: &yellow,
	})
	require.NoError(t, err)
	_, err = svc.AwardBelt(ctx, familydomain.AwardBeltRequest{
		StudentID: student.ID.String(),
		Rank:      "White Belt",
		AwardedAt: &white,
	})
	require.NoError(t, err)

	history, err := svc.BeltHistory(ctx, student.ID.String())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "White Belt", history[0].Rank)
	assert.Equal(t, "Yellow Belt", history[1].Rank)
}

func TestAwardBelt_RejectsBlankRank(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	family := createFamily(t, svc)

	student, err := svc.AddStudent(ctx, familydomain.AddStudentRequest{
		FamilyID:  family.ID.String(),
		FirstName: "Yuki",
		LastName:  "Tanaka",
		BirthDate: time.Date(2015, 3, 12, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = svc.AwardBelt(ctx, familydomain.AwardBeltRequest{
		StudentID: student.ID.String(),
		Rank:      "   ",
	})
	assert.ErrorIs(t, err, familydomain.ErrInvalidName)
}
