package constants

import "fmt"

// Roles del sistema (grupos en el modelo original)
const (
	RoleAdministradores = "Administradores"
	RoleBibliotecarios  = "Bibliotecarios"
	RoleLectores        = "Lectores"
	RoleInvitados       = "Invitados"
)

// Capacidades (permisos con nombre, independientes del rol)
const (
	CapAddUser    = "add_user"
	CapChangeUser = "change_user"
	CapDeleteUser = "delete_user"
	CapViewUser   = "view_user"

	CapAddBook    = "add_book"
	CapChangeBook = "change_book"
	CapDeleteBook = "delete_book"
	CapViewBook   = "view_book"

	CapAddAuthor    = "add_author"
	CapChangeAuthor = "change_author"
	CapDeleteAuthor = "delete_author"
	CapViewAuthor   = "view_author"

	CapAddGenre    = "add_genre"
	CapChangeGenre = "change_genre"
	CapDeleteGenre = "delete_genre"
	CapViewGenre   = "view_genre"

	CapViewAllLibraries = "view_all_libraries"
	CapManageLibrary    = "manage_library"
	CapGenerateReports  = "generate_reports"
	CapImportBooks      = "import_books"
)

// Mensajes de denegación
const (
	ErrNoLibraryAccess     = "No tienes permisos para acceder a esta biblioteca."
	ErrNoLibraryManagement = "No tienes permisos para gestionar bibliotecas."
	ErrNoReportAccess      = "No tienes permisos para generar reportes."
	ErrNoImportAccess      = "No tienes permisos para importar libros."
	ErrOnlyRoleCanAccess   = "Tu rol no permite acceder a la función %s."
)

func RoleError(feature string) string {
	return fmt.Sprintf(ErrOnlyRoleCanAccess, feature)
}

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdministradores,
		RoleBibliotecarios,
		RoleLectores,
		RoleInvitados,
	}

	// Roles de personal: acceso de gestión completo a catálogo y bibliotecas
	StaffRoles = []string{
		RoleAdministradores,
		RoleBibliotecarios,
	}

	AdminOnly = []string{
		RoleAdministradores,
	}
)

// DefaultCapabilities refleja la matriz de permisos por grupo del sistema
// original (setup de grupos iniciales). Se aplica al crear una cuenta y al
// reasignar roles; las capacidades extra se pueden conceder por cuenta.
var DefaultCapabilities = map[string][]string{
	RoleAdministradores: {
		CapAddUser, CapChangeUser, CapDeleteUser, CapViewUser,
		CapAddBook, CapChangeBook, CapDeleteBook, CapViewBook,
		CapAddAuthor, CapChangeAuthor, CapDeleteAuthor, CapViewAuthor,
		CapAddGenre, CapChangeGenre, CapDeleteGenre, CapViewGenre,
		CapViewAllLibraries, CapManageLibrary, CapGenerateReports, CapImportBooks,
	},
	RoleBibliotecarios: {
		CapViewUser,
		CapAddBook, CapChangeBook, CapDeleteBook, CapViewBook,
		CapAddAuthor, CapChangeAuthor, CapDeleteAuthor, CapViewAuthor,
		CapAddGenre, CapChangeGenre, CapDeleteGenre, CapViewGenre,
		CapViewAllLibraries, CapManageLibrary, CapGenerateReports, CapImportBooks,
	},
	RoleLectores: {
		CapViewBook, CapViewAuthor, CapViewGenre,
	},
	RoleInvitados: {
		CapViewBook,
	},
}

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
