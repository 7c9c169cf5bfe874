package policy

import (
	"testing"

	"github.com/google/uuid"

	"biblioteca_backend/internals/constants"
)

func TestCanAccessLibrary(t *testing.T) {
	own := uuid.New()
	other := uuid.New()

	cases := []struct {
		name   string
		actor  Actor
		target uuid.UUID
		want   bool
	}{
		{
			name:   "administrador accede a cualquier biblioteca",
			actor:  Actor{CuentaID: uuid.New(), Role: constants.RoleAdministradores},
			target: other,
			want:   true,
		},
		{
			name:   "bibliotecario accede a cualquier biblioteca",
			actor:  Actor{CuentaID: uuid.New(), Role: constants.RoleBibliotecarios},
			target: other,
			want:   true,
		},
		{
			name:   "lector accede a la propia",
			actor:  Actor{CuentaID: uuid.New(), Role: constants.RoleLectores, LectorID: &own},
			target: own,
			want:   true,
		},
		{
			name:   "lector no accede a la ajena",
			actor:  Actor{CuentaID: uuid.New(), Role: constants.RoleLectores, LectorID: &own},
			target: other,
			want:   false,
		},
		{
			name: "lector con view_all_libraries accede a la ajena",
			actor: Actor{
				CuentaID:     uuid.New(),
				Role:         constants.RoleLectores,
				Capabilities: []string{constants.CapViewAllLibraries},
				LectorID:     &own,
			},
			target: other,
			want:   true,
		},
		{
			name:   "invitado sin biblioteca no accede a nada",
			actor:  Actor{CuentaID: uuid.New(), Role: constants.RoleInvitados},
			target: other,
			want:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanAccessLibrary(tc.actor, tc.target); got != tc.want {
				t.Errorf("CanAccessLibrary() = %v, quiero %v", got, tc.want)
			}
		})
	}
}

func TestCanManageLibrary(t *testing.T) {
	if !CanManageLibrary(Actor{Role: constants.RoleBibliotecarios}) {
		t.Error("bibliotecario debería gestionar bibliotecas")
	}
	if CanManageLibrary(Actor{Role: constants.RoleLectores}) {
		t.Error("lector sin capacidad no debería gestionar bibliotecas")
	}
	if !CanManageLibrary(Actor{
		Role:         constants.RoleLectores,
		Capabilities: []string{constants.CapManageLibrary},
	}) {
		t.Error("la capacidad manage_library debería bastar")
	}
}

func TestCanGenerateReportsAndImport(t *testing.T) {
	lector := Actor{Role: constants.RoleLectores}
	if CanGenerateReports(lector) || CanImportBooks(lector) {
		t.Error("lector base no debería generar reportes ni importar")
	}

	conCaps := Actor{
		Role:         constants.RoleLectores,
		Capabilities: []string{constants.CapGenerateReports, constants.CapImportBooks},
	}
	if !CanGenerateReports(conCaps) || !CanImportBooks(conCaps) {
		t.Error("las capacidades explícitas deberían habilitar reportes e importación")
	}

	staff := Actor{Role: constants.RoleAdministradores}
	if !CanGenerateReports(staff) || !CanImportBooks(staff) {
		t.Error("el personal siempre genera reportes e importa")
	}
}

func TestDefaultCapabilitiesMatrix(t *testing.T) {
	// Los Lectores por defecto solo ven catálogo; nada de gestión.
	for _, cap := range constants.DefaultCapabilities[constants.RoleLectores] {
		switch cap {
		case constants.CapManageLibrary, constants.CapViewAllLibraries,
			constants.CapGenerateReports, constants.CapImportBooks:
			t.Errorf("Lectores no debería traer %q por defecto", cap)
		}
	}

	admin := Actor{
		Role:         constants.RoleLectores, // el rol no ayuda; solo capacidades
		Capabilities: constants.DefaultCapabilities[constants.RoleAdministradores],
	}
	if !CanManageLibrary(admin) || !CanGenerateReports(admin) || !CanImportBooks(admin) {
		t.Error("la matriz de Administradores debería cubrir todas las capacidades de gestión")
	}
}
