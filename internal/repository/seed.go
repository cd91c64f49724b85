package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	employeeDomain "github.com/FleetPro/service-dashboard/internal/domain/employee"
	rideDomain "github.com/FleetPro/service-dashboard/internal/domain/ride"
	sosDomain "github.com/FleetPro/service-dashboard/internal/domain/sos"
)

type seedEmployee struct {
	code, name, email, phone, department, shift, pickup string
	status                                              employeeDomain.Status
}

var seedEmployees = []seedEmployee{
	{"EMP001", "Rahul Sharma", "rahul.sharma@fleetpro.in", "+91 98100 11001", "Engineering", "09:00-18:00", "Sector 62, Noida", employeeDomain.StatusActive},
	{"EMP002", "Priya Nair", "priya.nair@fleetpro.in", "+91 98450 22002", "Finance", "10:00-19:00", "Whitefield, Bangalore", employeeDomain.StatusActive},
	{"EMP003", "Amit Patel", "amit.patel@fleetpro.in", "+91 98200 33003", "Operations", "08:00-17:00", "Andheri East, Mumbai", employeeDomain.StatusActive},
	{"EMP004", "Sneha Reddy", "sneha.reddy@fleetpro.in", "+91 98490 44004", "Human Resources", "09:30-18:30", "Electronic City, Bangalore", employeeDomain.StatusOnLeave},
	{"EMP005", "Vikram Singh", "vikram.singh@fleetpro.in", "+91 98110 55005", "Engineering", "14:00-23:00", "Cyber City, Gurgaon", employeeDomain.StatusActive},
	{"EMP006", "Ananya Iyer", "ananya.iyer@fleetpro.in", "+91 98400 66006", "Support", "22:00-07:00", "BKC, Mumbai", employeeDomain.StatusInactive},
}

type seedRide struct {
	employee, code, pickup, dropoff string
	offset                          time.Duration
	action                          func(r *rideDomain.Request) error
}

var seedRides = []seedRide{
	{"Rahul Sharma", "EMP001", "Sector 62, Noida", "Cyber City, Gurgaon", 2 * time.Hour, nil},
	{"Priya Nair", "EMP002", "Whitefield", "Electronic City", 3 * time.Hour, func(r *rideDomain.Request) error {
		return r.Approve("Seat confirmed on KA-03-EF-5678")
	}},
	{"Amit Patel", "EMP003", "Andheri East", "BKC, Mumbai", -20 * time.Hour, func(r *rideDomain.Request) error {
		if err := r.Approve(""); err != nil {
			return err
		}
		return r.Complete()
	}},
	{"Vikram Singh", "EMP005", "Cyber City, Gurgaon", "Sector 62, Noida", -4 * time.Hour, func(r *rideDomain.Request) error {
		return r.Cancel("Meeting rescheduled")
	}},
	{"Sneha Reddy", "EMP004", "Electronic City", "Whitefield", -28 * time.Hour, func(r *rideDomain.Request) error {
		if err := r.Approve(""); err != nil {
			return err
		}
		return r.Cancel("Employee on leave")
	}},
	{"Ananya Iyer", "EMP006", "BKC, Mumbai", "Andheri East", 26 * time.Hour, func(r *rideDomain.Request) error {
		return r.Reject("No seats on the night shuttle")
	}},
}

var seedAlerts = []struct {
	params sosDomain.RaiseParams
	offset time.Duration
	action func(a *sosDomain.Alert) error
}{
	{sosDomain.RaiseParams{
		EmployeeName: "Priya Nair", VehicleNumber: "KA-03-EF-5678", DriverName: "Suresh Babu",
		Location: "Outer Ring Road, Marathahalli", Message: "Vehicle breakdown, passengers stranded",
		Priority: sosDomain.PriorityHigh,
	}, -15 * time.Minute, nil},
	{sosDomain.RaiseParams{
		EmployeeName: "Rahul Sharma", VehicleNumber: "DL-01-AB-1234", DriverName: "Rajesh Kumar",
		Location: "NH-48, near Sector 29", Message: "Driver deviated from route",
		Priority: sosDomain.PriorityMedium,
	}, -90 * time.Minute, func(a *sosDomain.Alert) error { return a.Acknowledge() }},
	{sosDomain.RaiseParams{
		EmployeeName: "Amit Patel", VehicleNumber: "MH-02-CD-9012", DriverName: "Manoj Desai",
		Location: "Western Express Highway", Message: "Minor collision, no injuries",
		Priority: sosDomain.PriorityLow,
	}, -26 * time.Hour, func(a *sosDomain.Alert) error {
		return a.Resolve("Replacement vehicle dispatched")
	}},
}

// SeedIfEmpty populates empty repositories with the dashboard's demo data.
func SeedIfEmpty(
	ctx context.Context,
	employees employeeDomain.EmployeeRepository,
	rides rideDomain.RequestRepository,
	alerts sosDomain.AlertRepository,
	logger *zap.Logger,
) error {
	now := time.Now().UTC()

	if _, total, err := employees.List(ctx, employeeDomain.ListFilter{}, 1, 1); err != nil {
		return fmt.Errorf("failed to inspect employees: %w", err)
	} else if total == 0 {
		for _, s := range seedEmployees {
			e, err := employeeDomain.NewEmployee(s.code, s.name, s.email, s.phone, s.department, s.shift, s.pickup)
			if err != nil {
				return fmt.Errorf("seed employee %s: %w", s.code, err)
			}
			if s.status != employeeDomain.StatusActive {
				status := s.status
				if err := e.Apply(employeeDomain.Patch{Status: &status}); err != nil {
					return fmt.Errorf("seed employee %s: %w", s.code, err)
				}
			}
			if err := employees.Save(ctx, e); err != nil {
				return fmt.Errorf("seed employee %s: %w", s.code, err)
			}
		}
		logger.Info("seeded employees", zap.Int("count", len(seedEmployees)))
	}

	if _, total, err := rides.List(ctx, rideDomain.ListFilter{}, 1, 1); err != nil {
		return fmt.Errorf("failed to inspect ride requests: %w", err)
	} else if total == 0 {
		for _, s := range seedRides {
			r, err := rideDomain.NewRequest(s.employee, s.code, s.pickup, s.dropoff, now.Add(s.offset))
			if err != nil {
				return fmt.Errorf("seed ride request for %s: %w", s.code, err)
			}
			if s.action != nil {
				if err := s.action(r); err != nil {
					return fmt.Errorf("seed ride request for %s: %w", s.code, err)
				}
			}
			if err := rides.Save(ctx, r); err != nil {
				return fmt.Errorf("seed ride request for %s: %w", s.code, err)
			}
		}
		logger.Info("seeded ride requests", zap.Int("count", len(seedRides)))
	}

	if _, total, err := alerts.List(ctx, sosDomain.ListFilter{}, 1, 1); err != nil {
		return fmt.Errorf("failed to inspect sos alerts: %w", err)
	} else if total == 0 {
		for _, s := range seedAlerts {
			p := s.params
			p.RaisedAt = now.Add(s.offset)
			a, err := sosDomain.Raise(p)
			if err != nil {
				return fmt.Errorf("seed sos alert %s: %w", p.VehicleNumber, err)
			}
			if s.action != nil {
				if err := s.action(a); err != nil {
					return fmt.Errorf("seed sos alert %s: %w", p.VehicleNumber, err)
				}
			}
			if err := alerts.Save(ctx, a); err != nil {
				return fmt.Errorf("seed sos alert %s: %w", p.VehicleNumber, err)
			}
		}
		logger.Info("seeded sos alerts", zap.Int("count", len(seedAlerts)))
	}

	return nil
}
