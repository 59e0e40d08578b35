package entity

import "github.com/google/uuid"

// ValidID informa si id tiene la forma canónica de UUID que usan las claves de la base.
// Un id que no la cumple no puede existir en el almacén.
func ValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
