// Package policy contiene las decisiones puras de acceso: dado un actor
// explícito (rol + capacidades + lector enlazado), decide permitir/denegar.
// No toca la base de datos; el actor se resuelve una vez por request en el
// middleware de auth y se pasa como parámetro.
package policy

import (
	"github.com/google/uuid"

	"biblioteca_backend/internals/constants"
)

type Actor struct {
	CuentaID     uuid.UUID
	Role         string
	Capabilities []string
	// LectorID es el usuario de biblioteca enlazado a la cuenta (nil si la
	// cuenta no tiene biblioteca propia).
	LectorID *uuid.UUID
}

func (a Actor) HasCapability(name string) bool {
	for _, c := range a.Capabilities {
		if c == name {
			return true
		}
	}
	return false
}

func (a Actor) isStaff() bool {
	return a.Role == constants.RoleAdministradores || a.Role == constants.RoleBibliotecarios
}

// CanAccessLibrary: capacidad global "view_all_libraries", rol de personal, o
// la biblioteca propia del actor.
func CanAccessLibrary(a Actor, targetUserID uuid.UUID) bool {
	if a.HasCapability(constants.CapViewAllLibraries) || a.isStaff() {
		return true
	}
	return a.LectorID != nil && *a.LectorID == targetUserID
}

// CanManageLibrary: capacidad "manage_library" o rol de personal.
func CanManageLibrary(a Actor) bool {
	return a.HasCapability(constants.CapManageLibrary) || a.isStaff()
}

// CanGenerateReports: capacidad "generate_reports" o rol de personal.
func CanGenerateReports(a Actor) bool {
	return a.HasCapability(constants.CapGenerateReports) || a.isStaff()
}

// CanImportBooks: capacidad "import_books" o rol de personal.
func CanImportBooks(a Actor) bool {
	return a.HasCapability(constants.CapImportBooks) || a.isStaff()
}
