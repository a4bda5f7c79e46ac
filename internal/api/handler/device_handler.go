package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/devtrack/device-tracker/internal/core/domain"
	"github.com/devtrack/device-tracker/internal/core/ports"
)

// DeviceHandler serves the caller's devices. Every route must sit behind the
// Auth middleware; the owner always comes from the token.
type DeviceHandler struct {
	devices ports.DeviceService
}

func NewDeviceHandler(devices ports.DeviceService) *DeviceHandler {
	return &DeviceHandler{devices: devices}
}

// List returns the caller's devices in creation order.
//
// @Summary      List devices
// @Tags         devices
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Device
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/devices [get]
func (h *DeviceHandler) List(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	devices, err := h.devices.List(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, devices)
}

// Create adds a device owned by the caller.
//
// @Summary      Create device
// @Tags         devices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      deviceRequest  true  "Device"
// @Success      201   {object}  domain.Device
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/devices [post]
func (h *DeviceHandler) Create(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	req, err := bindDevice(c)
	if err != nil {
		return err
	}

	device, err := h.devices.Create(c.Request().Context(), id.UserID, req.toFields())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, device)
}

// Update replaces the editable fields of one of the caller's devices.
//
// @Summary      Update device
// @Tags         devices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "Device ID"
// @Param        body  body      deviceRequest  true  "Device"
// @Success      200   {object}  domain.Device
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/devices/{id} [put]
func (h *DeviceHandler) Update(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	deviceID, err := pathID(c)
	if err != nil {
		return err
	}

	req, err := bindDevice(c)
	if err != nil {
		return err
	}

	device, err := h.devices.Update(c.Request().Context(), id.UserID, deviceID, req.toFields())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, device)
}

// Delete removes one of the caller's devices.
//
// @Summary      Delete device
// @Tags         devices
// @Security     BearerAuth
// @Param        id   path  int  true  "Device ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/devices/{id} [delete]
func (h *DeviceHandler) Delete(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	deviceID, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.devices.Delete(c.Request().Context(), id.UserID, deviceID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func bindDevice(c echo.Context) (deviceRequest, error) {
	var req deviceRequest
	if err := c.Bind(&req); err != nil {
		return req, fmt.Errorf("%w: invalid request body", domain.ErrValidation)
	}
	if err := c.Validate(&req); err != nil {
		return req, err
	}
	return req, nil
}

// pathID parses :id. An id that cannot name a device is reported as not found.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrDeviceNotFound
	}
	return id, nil
}
