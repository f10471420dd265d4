package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/docstore"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/domain"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/dto"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/form"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/repository"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/response"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/workflow"
)

const (
	MsgEmployeeCreated   = "Empleado registrado correctamente."
	MsgEmployeeUpdated   = "Empleado actualizado correctamente."
	MsgEmployeeDuplicate = "El nombre de usuario ya existe."
)

// EmployeeService defines the interface for employee business logic
type EmployeeService interface {
	ListEmployees(ctx context.Context) ([]dto.EmployeeResponse, error)
	GetEmployee(ctx context.Context, id string) (*dto.EmployeeResponse, error)
	CreateEmployee(ctx context.Context, meta SubmitMeta, req dto.EmployeeRequest) (*SubmissionResult, error)
	UpdateEmployee(ctx context.Context, meta SubmitMeta, id string, req dto.EmployeeRequest) (*SubmissionResult, error)
}

// employeeServiceImpl is the implementation of EmployeeService
type employeeServiceImpl struct {
	submitter
	store  docstore.Store
	writer repository.RecordWriter
}

// EmployeeServiceDeps groups the collaborators of the employee service
type EmployeeServiceDeps struct {
	Store        docstore.Store
	Writer       repository.RecordWriter
	Orchestrator *workflow.Orchestrator
	Guard        InFlightGuard
	Sinks        SinkFactory
	Listeners    []ChangeListener
	Logger       *zap.Logger
}

// NewEmployeeService creates a new instance of EmployeeService
func NewEmployeeService(deps EmployeeServiceDeps) EmployeeService {
	return &employeeServiceImpl{
		submitter: submitter{
			orchestrator: deps.Orchestrator,
			guard:        deps.Guard,
			sinks:        deps.Sinks,
			listeners:    deps.Listeners,
			logger:       deps.Logger,
		},
		store:  deps.Store,
		writer: deps.Writer,
	}
}

func (s *employeeServiceImpl) ListEmployees(ctx context.Context) ([]dto.EmployeeResponse, error) {
	snaps, err := s.store.Collection(domain.CollectionEmployees).Documents(ctx)
	if err != nil {
		s.logger.Error("Failed to list employees", zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeBackend, "Failed to list employees", docstore.Code(err))
	}

	employees := make([]dto.EmployeeResponse, 0, len(snaps))
	for _, snap := range snaps {
		employees = append(employees, dto.NewEmployeeResponse(domain.EmployeeFromDocument(snap.ID, snap.Data)))
	}
	return employees, nil
}

func (s *employeeServiceImpl) GetEmployee(ctx context.Context, id string) (*dto.EmployeeResponse, error) {
	record, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewEmployeeResponse(record)
	return &resp, nil
}

// CreateEmployee stores the employee under their email; an existing
// document at that email rejects the submission without writing
func (s *employeeServiceImpl) CreateEmployee(ctx context.Context, meta SubmitMeta, req dto.EmployeeRequest) (*SubmissionResult, error) {
	f := form.NewEmployeeForm()
	applyEmployeeRequest(f, req)

	var written domain.EmployeeRecord
	sub := s.employeeSubmission(f)
	sub.Write = func(ctx context.Context) error {
		record := f.ToRecord()
		key := EmployeeKey(record.Email)
		if err := s.writer.CreateIfAbsent(ctx, domain.CollectionEmployees, key, record.Document()); err != nil {
			return err
		}
		record.ID = key
		written = record
		return nil
	}
	sub.ResetOnSuccess = true
	sub.SuccessMessage = MsgEmployeeCreated
	sub.UpdateData = func() { s.changed(ctx, domain.CollectionEmployees, written.ID) }

	return s.finish(ctx, meta, sub, &written)
}

func (s *employeeServiceImpl) UpdateEmployee(ctx context.Context, meta SubmitMeta, id string, req dto.EmployeeRequest) (*SubmissionResult, error) {
	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	f := form.EditEmployeeForm(existing)
	applyEmployeeRequest(f, req)

	var written domain.EmployeeRecord
	sub := s.employeeSubmission(f)
	sub.Write = func(ctx context.Context) error {
		record := f.ToRecord()
		if err := s.writer.UpdateByID(ctx, domain.CollectionEmployees, id, record.UpdateDocument()); err != nil {
			return err
		}
		record.UserID = existing.UserID
		written = record
		return nil
	}
	sub.CloseOnSuccess = true
	sub.SetShowModal = func(bool) {}
	sub.SuccessMessage = MsgEmployeeUpdated
	sub.UpdateData = func() { s.changed(ctx, domain.CollectionEmployees, id) }

	return s.finish(ctx, meta, sub, &written)
}

func (s *employeeServiceImpl) employeeSubmission(f *form.EmployeeForm) workflow.Submission {
	return workflow.Submission{
		Name:     "employee",
		Form:     f,
		Validate: f.Validate,
		FailureMessage: func(err error) string {
			if repository.IsWriteErrorKind(err, repository.WriteErrDuplicateKey) {
				return MsgEmployeeDuplicate
			}
			return workflow.DefaultFailureMessage(err)
		},
	}
}

func (s *employeeServiceImpl) finish(ctx context.Context, meta SubmitMeta, sub workflow.Submission, written *domain.EmployeeRecord) (*SubmissionResult, error) {
	result, err := s.run(ctx, meta, sub)
	if err != nil {
		return nil, err
	}
	if result.Outcome.State == workflow.Succeeded {
		result.Data = dto.NewEmployeeResponse(*written)
	}
	return result, nil
}

func (s *employeeServiceImpl) load(ctx context.Context, id string) (domain.EmployeeRecord, error) {
	snap, err := s.store.Collection(domain.CollectionEmployees).Doc(id).Get(ctx)
	if err != nil {
		if docstore.Code(err) == docstore.CodeInvalidArgument {
			return domain.EmployeeRecord{}, response.NewValidationError("Invalid employee id", id)
		}
		return domain.EmployeeRecord{}, response.NewAppError(response.ErrCodeBackend, "Failed to load employee", docstore.Code(err))
	}
	if !snap.Exists {
		return domain.EmployeeRecord{}, response.NewNotFoundError("Employee not found", id)
	}
	return domain.EmployeeFromDocument(snap.ID, snap.Data), nil
}

// EmployeeKey is the document key of the employee with this email
func EmployeeKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func applyEmployeeRequest(f *form.EmployeeForm, req dto.EmployeeRequest) {
	f.Set(func(v *form.EmployeeValues) {
		v.Name = req.Name
		v.LastName = req.LastName
		v.Phone = req.Phone
		v.Username = req.Username
		v.Email = req.Email
		v.Role = req.Role
		v.PermissionStock = req.PermissionStock
		v.PermissionProducts = req.PermissionProducts
		v.PermissionSales = req.PermissionSales
		v.PermissionCustomer = req.PermissionCustomer
	})
}
