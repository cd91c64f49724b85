package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	employeeDomain "github.com/FleetPro/service-dashboard/internal/domain/employee"
	rideDomain "github.com/FleetPro/service-dashboard/internal/domain/ride"
	sosDomain "github.com/FleetPro/service-dashboard/internal/domain/sos"
	"github.com/FleetPro/service-dashboard/internal/platform/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&EmployeeModel{}, &RideRequestModel{}, &SOSAlertModel{}))
	return db
}

type repoSet struct {
	employees employeeDomain.EmployeeRepository
	rides     rideDomain.RequestRepository
	alerts    sosDomain.AlertRepository
}

func implementations() map[string]func(t *testing.T) repoSet {
	return map[string]func(t *testing.T) repoSet{
		"memory": func(*testing.T) repoSet {
			return repoSet{
				employees: NewMemoryEmployeeRepository(),
				rides:     NewMemoryRideRequestRepository(),
				alerts:    NewMemorySOSAlertRepository(),
			}
		},
		"gorm": func(t *testing.T) repoSet {
			db := newTestDB(t)
			return repoSet{
				employees: NewGormEmployeeRepository(db),
				rides:     NewGormRideRequestRepository(db),
				alerts:    NewGormSOSAlertRepository(db),
			}
		},
	}
}

func seeded(t *testing.T, build func(*testing.T) repoSet) repoSet {
	t.Helper()
	repos := build(t)
	require.NoError(t, SeedIfEmpty(context.Background(), repos.employees, repos.rides, repos.alerts, zap.NewNop()))
	return repos
}

func TestSeedIfEmpty_PopulatesOnce(t *testing.T) {
	for name, build := range implementations() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repos := seeded(t, build)
			require.NoError(t, SeedIfEmpty(ctx, repos.employees, repos.rides, repos.alerts, zap.NewNop()))

			_, employees, err := repos.employees.List(ctx, employeeDomain.ListFilter{}, 1, 100)
			require.NoError(t, err)
			assert.Equal(t, int64(len(seedEmployees)), employees)

			_, rides, err := repos.rides.List(ctx, rideDomain.ListFilter{}, 1, 100)
			require.NoError(t, err)
			assert.Equal(t, int64(len(seedRides)), rides)

			_, alerts, err := repos.alerts.List(ctx, sosDomain.ListFilter{}, 1, 100)
			require.NoError(t, err)
			assert.Equal(t, int64(len(seedAlerts)), alerts)
		})
	}
}

func TestEmployeeRepository_ListFilterAndPaging(t *testing.T) {
	for name, build := range implementations() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repos := seeded(t, build)

			page, total, err := repos.employees.List(ctx, employeeDomain.ListFilter{}, 2, 4)
			require.NoError(t, err)
			assert.Equal(t, int64(6), total)
			require.Len(t, page, 2)
			assert.Equal(t, "EMP005", page[0].EmployeeCode())
			assert.Equal(t, "EMP006", page[1].EmployeeCode())

			active, total, err := repos.employees.List(ctx, employeeDomain.ListFilter{Status: employeeDomain.StatusActive}, 1, 20)
			require.NoError(t, err)
			assert.Equal(t, int64(4), total)
			for _, e := range active {
				assert.Equal(t, employeeDomain.StatusActive, e.Status())
			}

			found, total, err := repos.employees.List(ctx, employeeDomain.ListFilter{Search: "ENGINEERING"}, 1, 20)
			require.NoError(t, err)
			assert.Equal(t, int64(2), total)
			assert.Equal(t, "EMP001", found[0].EmployeeCode())

			counts, err := repos.employees.CountByStatus(ctx)
			require.NoError(t, err)
			assert.Equal(t, map[string]int64{"active": 4, "on_leave": 1, "inactive": 1}, counts)
		})
	}
}

func TestEmployeeRepository_UpdateOptimisticLocking(t *testing.T) {
	for name, build := range implementations() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repos := build(t)

			e, err := employeeDomain.NewEmployee("EMP100", "Kiran Rao", "kiran@fleetpro.in", "", "Sales", "09:00-18:00", "HSR Layout")
			require.NoError(t, err)
			require.NoError(t, repos.employees.Save(ctx, e))

			first, err := repos.employees.FindByID(ctx, e.ID())
			require.NoError(t, err)
			stale, err := repos.employees.FindByID(ctx, e.ID())
			require.NoError(t, err)

			dept := "Marketing"
			require.NoError(t, first.Apply(employeeDomain.Patch{Department: &dept}))
			first.IncrementVersion()
			require.NoError(t, repos.employees.Update(ctx, first))

			shift := "night"
			require.NoError(t, stale.Apply(employeeDomain.Patch{Shift: &shift}))
			stale.IncrementVersion()
			err = repos.employees.Update(ctx, stale)
			assert.True(t, domain.IsCode(err, domain.CodeConflict))

			got, err := repos.employees.FindByID(ctx, e.ID())
			require.NoError(t, err)
			assert.Equal(t, "Marketing", got.Department())
			assert.Equal(t, "09:00-18:00", got.Shift())
			assert.Equal(t, int64(2), got.Version())
		})
	}
}

func TestRepositories_FindByIDNotFound(t *testing.T) {
	for name, build := range implementations() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repos := build(t)

			_, err := repos.employees.FindByID(ctx, uuid.New())
			assert.True(t, domain.IsCode(err, domain.CodeNotFound))
			_, err = repos.rides.FindByID(ctx, uuid.New())
			assert.True(t, domain.IsCode(err, domain.CodeNotFound))
			_, err = repos.alerts.FindByID(ctx, uuid.New())
			assert.True(t, domain.IsCode(err, domain.CodeNotFound))
		})
	}
}

func TestRideRequestRepository_CancellationsAndTransitions(t *testing.T) {
	for name, build := range implementations() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repos := seeded(t, build)

			cancelled, total, err := repos.rides.List(ctx, rideDomain.ListFilter{Status: rideDomain.StatusCancelled}, 1, 20)
			require.NoError(t, err)
			assert.Equal(t, int64(2), total)
			assert.True(t, cancelled[0].RequestedFor().After(cancelled[1].RequestedFor()))
			for _, r := range cancelled {
				assert.NotEmpty(t, r.CancelReason())
				require.NotNil(t, r.CancelledAt())
			}

			pending, _, err := repos.rides.List(ctx, rideDomain.ListFilter{Status: rideDomain.StatusPending}, 1, 20)
			require.NoError(t, err)
			require.Len(t, pending, 1)

			req, err := repos.rides.FindByID(ctx, pending[0].ID())
			require.NoError(t, err)
			require.NoError(t, req.Approve("ok"))
			req.IncrementVersion()
			require.NoError(t, repos.rides.Update(ctx, req))

			got, err := repos.rides.FindByID(ctx, req.ID())
			require.NoError(t, err)
			assert.Equal(t, rideDomain.StatusApproved, got.Status())
			assert.Equal(t, "ok", got.DecisionNote())
			require.NotNil(t, got.ApprovedAt())

			counts, err := repos.rides.CountByStatus(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(2), counts["approved"])
			assert.Equal(t, int64(0), counts["pending"])
		})
	}
}

func TestSOSAlertRepository_NewestFirstAndCounts(t *testing.T) {
	for name, build := range implementations() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repos := seeded(t, build)

			a, err := sosDomain.Raise(sosDomain.RaiseParams{
				VehicleNumber: "DL-01-AB-1234",
				Location:      "Sector 18",
				RaisedAt:      time.Now().Add(time.Minute),
			})
			require.NoError(t, err)
			require.NoError(t, repos.alerts.Save(ctx, a))

			alerts, total, err := repos.alerts.List(ctx, sosDomain.ListFilter{}, 1, 20)
			require.NoError(t, err)
			assert.Equal(t, int64(4), total)
			assert.Equal(t, a.ID(), alerts[0].ID())

			high, _, err := repos.alerts.List(ctx, sosDomain.ListFilter{Priority: sosDomain.PriorityHigh, Status: sosDomain.StatusOpen}, 1, 20)
			require.NoError(t, err)
			assert.Len(t, high, 2)

			byStatus, err := repos.alerts.CountByStatus(ctx)
			require.NoError(t, err)
			assert.Equal(t, map[string]int64{"open": 2, "acknowledged": 1, "resolved": 1}, byStatus)

			byPriority, err := repos.alerts.CountByPriority(ctx)
			require.NoError(t, err)
			assert.Equal(t, map[string]int64{"high": 2, "medium": 1, "low": 1}, byPriority)
		})
	}
}
