package identity

import "strings"

// Unnamed es el nombre que se muestra para registros sin ejemplar.
// Nunca se persiste como identidad.
const Unnamed = "Unnamed"

// Key identifica un ejemplar dentro de un owner.
// Conserva mayúsculas tal cual las escribió el usuario.
type Key struct {
	Owner   string
	Name    string
	Species string
}

// New normaliza nombre y especie. Devuelve false si el nombre queda vacío:
// esos registros no generan ejemplar ni se migran.
func New(owner, name, species string) (Key, bool) {
	k := Key{
		Owner:   owner,
		Name:    strings.TrimSpace(name),
		Species: strings.TrimSpace(species),
	}
	if k.Name == "" {
		return Key{}, false
	}
	return k, true
}

func (k Key) String() string {
	return k.Owner + "::" + k.Name + "::" + k.Species
}

// CoverKey es la clave del índice de portadas: (owner, nombre), sin especie.
func (k Key) CoverKey() CoverKey {
	return CoverKey{Owner: k.Owner, Name: k.Name}
}

type CoverKey struct {
	Owner string
	Name  string
}

func (c CoverKey) String() string {
	return c.Owner + "::" + c.Name
}

// MatchName compara un nombre histórico contra uno buscado:
// igualdad exacta sin distinguir mayúsculas. Ambos se recortan, igual que en Key.
func MatchName(stored, wanted string) bool {
	wanted = strings.TrimSpace(wanted)
	if wanted == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(stored), wanted)
}

// DisplayName devuelve el nombre a mostrar para un registro.
func DisplayName(name string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return Unnamed
}
