package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/repair-service/internal/api/dto"
	"github.com/campus-kit/repair-service/internal/auth"
	"github.com/campus-kit/repair-service/internal/domain"
	"github.com/campus-kit/repair-service/internal/service"
	apperrors "github.com/campus-kit/repair-service/pkg/util"
)

// DepartmentsHandler manages the administration surface: departments,
// fault types, staff bindings and department admins.
type DepartmentsHandler struct {
	service *service.DepartmentService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(departmentService *service.DepartmentService) *DepartmentsHandler {
	return &DepartmentsHandler{service: departmentService}
}

// Create POST /departments.
func (h *DepartmentsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewParamsError("invalid payload")
	}
	dept, err := h.service.CreateDepartment(c.UserContext(), principal, req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": departmentResponse(dept)})
}

// List GET /departments.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	depts, err := h.service.ListDepartments(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		items = append(items, departmentResponse(&depts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /departments/:id.
func (h *DepartmentsHandler) Get(c *fiber.Ctx) error {
	dept, err := h.service.GetDepartment(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": departmentResponse(dept)})
}

// Delete DELETE /departments/:id.
func (h *DepartmentsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	if err := h.service.DeleteDepartment(c.UserContext(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BindStaff POST /departments/:id/staff.
func (h *DepartmentsHandler) BindStaff(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	var req dto.BindStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewParamsError("invalid payload")
	}
	binding, err := h.service.BindStaff(c.UserContext(), principal, c.Params("id"), req.StaffID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": staffBindingResponse(binding)})
}

// UnbindStaff DELETE /departments/:id/staff/:staffId.
func (h *DepartmentsHandler) UnbindStaff(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	if err := h.service.UnbindStaff(c.UserContext(), principal, c.Params("id"), c.Params("staffId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListStaff GET /staff, optionally filtered by department.
func (h *DepartmentsHandler) ListStaff(c *fiber.Ctx) error {
	var departmentID *string
	if id := c.Query("department_id"); id != "" {
		departmentID = &id
	}
	bindings, err := h.service.ListStaff(c.UserContext(), departmentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffBindingResponses(bindings)})
}

// ListStaffByType GET /types/:id/staff.
func (h *DepartmentsHandler) ListStaffByType(c *fiber.Ctx) error {
	bindings, err := h.service.ListStaffByType(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffBindingResponses(bindings)})
}

// SetAdmin POST /departments/:id/admins.
func (h *DepartmentsHandler) SetAdmin(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	var req dto.SetAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewParamsError("invalid payload")
	}
	binding, err := h.service.SetAdmin(c.UserContext(), principal, c.Params("id"), req.AdminID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": adminBindingResponse(binding)})
}

// RemoveAdmin DELETE /departments/:id/admins/:adminId.
func (h *DepartmentsHandler) RemoveAdmin(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	if err := h.service.RemoveAdmin(c.UserContext(), principal, c.Params("id"), c.Params("adminId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListAdmins GET /departments/:id/admins.
func (h *DepartmentsHandler) ListAdmins(c *fiber.Ctx) error {
	bindings, err := h.service.ListAdmins(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.AdminBindingResponse, 0, len(bindings))
	for i := range bindings {
		items = append(items, adminBindingResponse(&bindings[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateType POST /types.
func (h *DepartmentsHandler) CreateType(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	var req dto.CreateTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewParamsError("invalid payload")
	}
	ticketType, err := h.service.CreateType(c.UserContext(), principal, service.TypeInput{
		DepartmentID: req.DepartmentID,
		DisplayName:  req.DisplayName,
		Internal:     req.Internal,
		ExternalCode: req.ExternalCode,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": typeResponse(ticketType)})
}

// ListTypes GET /types, optionally filtered by department.
func (h *DepartmentsHandler) ListTypes(c *fiber.Ctx) error {
	var departmentID *string
	if id := c.Query("department_id"); id != "" {
		departmentID = &id
	}
	types, err := h.service.ListTypes(c.UserContext(), departmentID)
	if err != nil {
		return err
	}
	items := make([]dto.TicketTypeResponse, 0, len(types))
	for i := range types {
		items = append(items, typeResponse(&types[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeleteType DELETE /types/:id.
func (h *DepartmentsHandler) DeleteType(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	if err := h.service.DeleteType(c.UserContext(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func departmentResponse(dept *domain.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{ID: dept.ID, Name: dept.Name}
}

func staffBindingResponse(binding *domain.StaffBinding) dto.StaffBindingResponse {
	return dto.StaffBindingResponse{
		ID:           binding.ID,
		DepartmentID: binding.DepartmentID,
		StaffID:      binding.StaffID,
		StaffName:    binding.StaffName,
	}
}

func staffBindingResponses(bindings []domain.StaffBinding) []dto.StaffBindingResponse {
	items := make([]dto.StaffBindingResponse, 0, len(bindings))
	for i := range bindings {
		items = append(items, staffBindingResponse(&bindings[i]))
	}
	return items
}

func adminBindingResponse(binding *domain.DepartmentAdminBinding) dto.AdminBindingResponse {
	return dto.AdminBindingResponse{
		ID:           binding.ID,
		DepartmentID: binding.DepartmentID,
		AdminID:      binding.AdminID,
		AdminName:    binding.AdminName,
	}
}

func typeResponse(t *domain.TicketType) dto.TicketTypeResponse {
	return dto.TicketTypeResponse{
		ID:           t.ID,
		DisplayName:  t.DisplayName,
		DepartmentID: t.DepartmentID,
		Internal:     t.Internal,
	}
}
