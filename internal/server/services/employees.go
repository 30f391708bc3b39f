package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dkoval/companyportal/internal/common"
	"github.com/dkoval/companyportal/internal/server/models"
	"github.com/dkoval/companyportal/internal/server/repositories/employees"
)

// Roles is the fixed set of employee roles the portal accepts.
var Roles = []string{"Manager", "Developer", "Designer", "HR", "Intern"}

// EmployeeService implements the employee directory: CRUD plus the
// count-by-role report.
type EmployeeService struct {
	repo employees.Repository
}

func NewEmployeeService(repo employees.Repository) *EmployeeService {
	return &EmployeeService{repo: repo}
}

// EmployeeRequest carries the add/update form fields.
type EmployeeRequest struct {
	FirstName string
	LastName  string
	Role      string
}

func validateEmployee(req EmployeeRequest) (EmployeeRequest, common.ValidationErrors) {
	var errs common.ValidationErrors

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Role = strings.TrimSpace(req.Role)

	if len(req.FirstName) < 2 {
		errs = append(errs, "First name must be at least 2 characters.")
	}
	if len(req.LastName) < 2 {
		errs = append(errs, "Last name must be at least 2 characters.")
	}

	valid := false
	for _, role := range Roles {
		if req.Role == role {
			valid = true
			break
		}
	}
	if !valid {
		errs = append(errs, "Please select a valid role.")
	}

	return req, errs
}

func (s *EmployeeService) List(ctx context.Context) ([]*models.Employee, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing employees: %w", err)
	}
	return list, nil
}

func (s *EmployeeService) Get(ctx context.Context, id int64) (*models.Employee, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EmployeeService) Create(ctx context.Context, req EmployeeRequest) (*models.Employee, error) {
	req, errs := validateEmployee(req)
	if errs.HasErrors() {
		return nil, errs
	}

	employee := &models.Employee{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	}

	employee, err := s.repo.Create(ctx, employee)
	if err != nil {
		return nil, fmt.Errorf("error creating employee: %w", err)
	}

	return employee, nil
}

func (s *EmployeeService) Update(ctx context.Context, id int64, req EmployeeRequest) (*models.Employee, error) {
	req, errs := validateEmployee(req)
	if errs.HasErrors() {
		return nil, errs
	}

	employee := &models.Employee{
		ID:        id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	}

	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, err
	}

	return employee, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// RoleReport returns per-role employee totals, most common role first.
func (s *EmployeeService) RoleReport(ctx context.Context) ([]*models.RoleCount, error) {
	report, err := s.repo.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("error building role report: %w", err)
	}
	return report, nil
}
