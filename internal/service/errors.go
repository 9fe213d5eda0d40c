package service

import "errors"

// Common service errors
var (
	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrProjectNotFound is returned when a project is not found or not visible to the caller
	ErrProjectNotFound = errors.New("project not found")

	// ErrActivityNotFound is returned when an activity is not found
	ErrActivityNotFound = errors.New("activity not found")

	// ErrIndicatorNotFound is returned when an indicator is not found
	ErrIndicatorNotFound = errors.New("indicator not found")

	// ErrConductNotFound is returned when a conduct is not found
	ErrConductNotFound = errors.New("conduct not found")

	// ErrFileNotFound is returned when a project file is not found
	ErrFileNotFound = errors.New("file not found")

	// ErrUserNotFound is returned when a user profile is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrMemberNotFound is returned when a user is not a member of the project
	ErrMemberNotFound = errors.New("member not found")

	// ErrMemberExists is returned when adding a user that is already an active member
	ErrMemberExists = errors.New("user is already a project member")

	// ErrInvalidDateRange is returned when an activity ends before it starts
	ErrInvalidDateRange = errors.New("end date must not be before start date")

	// ErrUnknownWidgetType is returned when an overview card type is not in the catalog
	ErrUnknownWidgetType = errors.New("unknown overview card type")

	// ErrWidgetExists is returned when adding an overview card that is already on the grid
	ErrWidgetExists = errors.New("overview card already added")

	// ErrWidgetNotFound is returned when an overview card is not on the grid
	ErrWidgetNotFound = errors.New("overview card not found")

	// ErrNoImportableRows is returned when an imported spreadsheet matches no known fields
	ErrNoImportableRows = errors.New("no importable rows found in spreadsheet")

	// ErrUnsupportedChartType is returned when a chart type is not recognized
	ErrUnsupportedChartType = errors.New("unsupported chart type")

	// ErrInvalidRole is returned when an invalid role is provided
	ErrInvalidRole = errors.New("invalid role")
)
