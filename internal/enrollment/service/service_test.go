package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	enrollmentdomain "github.com/snusnumrick/dojoflow/internal/enrollment/domain"
	"github.com/snusnumrick/dojoflow/internal/enrollment/eligibility"
	enrollmentrepo "github.com/snusnumrick/dojoflow/internal/enrollment/repository"
	familydomain "github.com/snusnumrick/dojoflow/internal/family/domain"
	familyrepo "github.com/snusnumrick/dojoflow/internal/family/repository"
	programdomain "github.com/snusnumrick/dojoflow/internal/program/domain"
	programrepo "github.com/snusnumrick/dojoflow/internal/program/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db          *gorm.DB
	node        *snowflake.Node
	svc         enrollmentdomain.Service
	familyRepo  familydomain.Repository
	programRepo programdomain.Repository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&familydomain.Family{},
		&familydomain.Student{},
		&familydomain.BeltAward{},
		&programdomain.Program{},
		&programdomain.Class{},
		&programdomain.ClassSession{},
		&enrollmentdomain.Enrollment{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	familyRepo := familyrepo.NewRepository(db)
	programRepo := programrepo.NewRepository(db)
	svc := NewService(ServiceParam{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Repo:        enrollmentrepo.NewRepository(db),
		FamilyRepo:  familyRepo,
		ProgramRepo: programRepo,
	})

	return &testEnv{db: db, node: node, svc: svc, familyRepo: familyRepo, programRepo: programRepo}
}

func (e *testEnv) createStudent(t *testing.T, age int) *familydomain.Student {
	t.Helper()
	ctx := context.Background()

	family := &familydomain.Family{
		ID:    e.node.Generate(),
		Name:  "Tanaka",
		Email: "tanaka@example.com",
	}
	require.NoError(t, e.familyRepo.CreateFamily(ctx, family))

	student := &familydomain.Student{
		ID:        e.node.Generate(),
		FamilyID:  family.ID,
		FirstName: "Kenji",
		LastName:  "Tanaka",
		BirthDate: time.Now().UTC().AddDate(-age, 0, -1),
		Gender:    familydomain.GenderMale,
	}
	require.NoError(t, e.familyRepo.CreateStudent(ctx, student))
	return student
}

func (e *testEnv) createClass(t *testing.T, program *programdomain.Program, capacity int) *programdomain.Class {
	t.Helper()
	ctx := context.Background()

	if program.ID == 0 {
		program.ID = e.node.Generate()
	}
	require.NoError(t, e.programRepo.CreateProgram(ctx, program))

	class := &programdomain.Class{
		ID:        e.node.Generate(),
		ProgramID: program.ID,
		Name:      program.Name + " A",
		Capacity:  capacity,
		Active:    true,
	}
	require.NoError(t, e.programRepo.CreateClass(ctx, class, nil))
	return class
}

func intPtr(v int) *int { return &v }

func TestEnroll_ActiveThenWaitlisted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	class := env.createClass(t, &programdomain.Program{
		Name:            "Youth Karate",
		MonthlyFeeCents: 12000,
		MinAge:          intPtr(6),
		MaxAge:          intPtr(12),
		Active:          true,
	}, 1)

	first := env.createStudent(t, 10)
	second := env.createStudent(t, 9)

	result, err := env.svc.Enroll(ctx, enrollmentdomain.EnrollRequest{
		StudentID: first.ID.String(),
		ClassID:   class.ID.String(),
	})
	require.NoError(t, err)
	assert.False(t, result.Waitlisted)
	assert.Equal(t, enrollmentdomain.StatusActive, result.Enrollment.Status)

	result, err = env.svc.Enroll(ctx, enrollmentdomain.EnrollRequest{
		StudentID: second.ID.String(),
		ClassID:   class.ID.String(),
	})
	require.NoError(t, err)
	assert.True(t, result.Waitlisted)
	assert.Equal(t, enrollmentdomain.StatusWaitlisted, result.Enrollment.Status)
}

func TestEnroll_RejectsIneligibleAndDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	class := env.createClass(t, &programdomain.Program{
		Name:            "Youth Karate",
		MonthlyFeeCents: 12000,
		MinAge:          intPtr(6),
		MaxAge:          intPtr(12),
		Active:          true,
	}, 0)

	adult := env.createStudent(t, 25)
	_, err := env.svc.Enroll(ctx, enrollmentdomain.EnrollRequest{
		StudentID: adult.ID.String(),
		ClassID:   class.ID.String(),
	})
	assert.ErrorIs(t, err, enrollmentdomain.ErrNotEligible)

	kid := env.createStudent(t, 10)
	_, err = env.svc.Enroll(ctx, enrollmentdomain.EnrollRequest{
		StudentID: kid.ID.String(),
		ClassID:   class.ID.String(),
	})
	require.NoError(t, err)

	_, err = env.svc.Enroll(ctx, enrollmentdomain.EnrollRequest{
		StudentID: kid.ID.String(),
		ClassID:   class.ID.String(),
	})
	assert.ErrorIs(t, err, enrollmentdomain.ErrAlreadyEnrolled)
}

func TestDrop_PromotesOldestWaitlisted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	class := env.createClass(t, &programdomain.Program{
		Name:            "Sparring",
		MonthlyFeeCents: 15000,
		Active:          true,
	}, 1)

	active := env.createStudent(t, 12)
	waiting := env.createStudent(t, 11)

	first, err := env.svc.Enroll(ctx, enrollmentdomain.EnrollRequest{
		StudentID: active.ID.String(),
		ClassID:   class.ID.String(),
	})
	require.NoError(t, err)

	second, err := env.svc.Enroll(ctx, enrollmentdomain.EnrollRequest{
		StudentID: waiting.ID.String(),
		ClassID:   class.ID.String(),
	})
	require.NoError(t, err)
	require.True(t, second.Waitlisted)

	require.NoError(t, env.svc.Drop(ctx, first.Enrollment.ID.String()))

	enrollments, err := env.svc.ListByClass(ctx, class.ID.String())
	require.NoError(t, err)
	byID := make(map[snowflake.ID]enrollmentdomain.Enrollment)
	for _, enrollment := range enrollments {
		byID[enrollment.ID] = enrollment
	}
	assert.Equal(t, enrollmentdomain.StatusDropped, byID[first.Enrollment.ID].Status)
	assert.Equal(t, enrollmentdomain.StatusActive, byID[second.Enrollment.ID].Status)

	// dropping twice is rejected
	err = env.svc.Drop(ctx, first.Enrollment.ID.String())
	assert.ErrorIs(t, err, enrollmentdomain.ErrEnrollmentNotOpen)
}

func TestComplete_UnlocksPrerequisites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	basics := &programdomain.Program{
		ID:              env.node.Generate(),
		Name:            "Basics",
		MonthlyFeeCents: 10000,
		Active:          true,
	}
	basicsClass := env.createClass(t, basics, 0)

	advanced := &programdomain.Program{
		Name:                   "Advanced",
		MonthlyFeeCents:        16000,
		PrerequisiteProgramIDs: []string{basics.ID.String()},
		Active:                 true,
	}
	advancedClass := env.createClass(t, advanced, 0)

	student := env.createStudent(t, 14)

	// blocked until Basics is completed
	_, err := env.svc.Enroll(ctx, enrollmentdomain.EnrollRequest{
		StudentID: student.ID.String(),
		ClassID:   advancedClass.ID.String(),
	})
	assert.ErrorIs(t, err, enrollmentdomain.ErrNotEligible)

	check, err := env.svc.CheckEligibility(ctx, student.ID.String(), advancedClass.ProgramID.String())
	require.NoError(t, err)
	assert.False(t, check.Eligible)
	assert.NotEmpty(t, check.Recommendations)
	assert.Contains(t, check.Recommendations[0], "Basics")

	enrolled, err := env.svc.Enroll(ctx, enrollmentdomain.EnrollRequest{
		StudentID: student.ID.String(),
		ClassID:   basicsClass.ID.String(),
	})
	require.NoError(t, err)
	require.NoError(t, env.svc.Complete(ctx, enrolled.Enrollment.ID.String()))

	result, err := env.svc.Enroll(ctx, enrollmentdomain.EnrollRequest{
		StudentID: student.ID.String(),
		ClassID:   advancedClass.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, enrollmentdomain.StatusActive, result.Enrollment.Status)
}

func TestCheckEligibility_BeltRankRecommendation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	blue := "blue"
	program := &programdomain.Program{
		ID:              env.node.Generate(),
		Name:            "Competition Team",
		MonthlyFeeCents: 20000,
		MinBeltRank:     &blue,
		EnforceBeltRank: true,
		Active:          true,
	}
	require.NoError(t, env.programRepo.CreateProgram(ctx, program))

	student := env.createStudent(t, 13)
	require.NoError(t, env.familyRepo.CreateBeltAward(ctx, &familydomain.BeltAward{
		ID:        env.node.Generate(),
		StudentID: student.ID,
		Rank:      "green",
		AwardedAt: time.Now().UTC().AddDate(0, -3, 0),
	}))

	result, err := env.svc.CheckEligibility(ctx, student.ID.String(), program.ID.String())
	require.NoError(t, err)
	assert.False(t, result.Eligible)

	var beltReq *eligibility.Requirement
	for i := range result.Requirements {
		if result.Requirements[i].Type == eligibility.RequirementBeltRank {
			beltReq = &result.Requirements[i]
		}
	}
	require.NotNil(t, beltReq)
	assert.Equal(t, "Green Belt", beltReq.Actual)
	require.NotEmpty(t, result.Recommendations)
	assert.Contains(t, result.Recommendations[0], "Blue Belt")
}
