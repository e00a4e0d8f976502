// Package alias holds the group-alias table: human-assigned names mapped to
// a remote's device ID, group ID and device type.
//
// The table's binary framing is shared by the on-disk alias file and the
// alias section of a backup container. Each record is the NUL-terminated
// name followed by an 8-byte identity record in native byte order; one
// 0x00 separator byte ends the section. Because names are never empty, a
// 0x00 where a name would begin is unambiguous.
package alias
