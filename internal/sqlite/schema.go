package sqlite

// inventoryTable is the table name. The Spanish column names match the
// files written by earlier versions of the inventory program so those
// files open unchanged.
const inventoryTable = "inventario"

// Schema DDL. AUTOINCREMENT keeps SQLite from handing out the id of a
// deleted row again.
const createInventory = `CREATE TABLE IF NOT EXISTS inventario (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    nombre TEXT NOT NULL,
    tipo TEXT NOT NULL,
    cantidad INTEGER NOT NULL,
    ubicacion TEXT NOT NULL DEFAULT '',
    fechaAdquisicion TEXT NOT NULL DEFAULT ''
);`

// Statements, all with bound parameters.
const (
	selectColumns = "SELECT id, nombre, tipo, cantidad, ubicacion, fechaAdquisicion FROM inventario"

	stmtInsert         = "INSERT INTO inventario (nombre, tipo, cantidad, ubicacion, fechaAdquisicion) VALUES (?, ?, ?, ?, ?)"
	stmtUpdateQuantity = "UPDATE inventario SET cantidad = ? WHERE id = ?"
	stmtUpdateRecord   = "UPDATE inventario SET nombre = ?, tipo = ?, cantidad = ?, ubicacion = ?, fechaAdquisicion = ? WHERE id = ?"
	stmtDelete         = "DELETE FROM inventario WHERE id = ?"
	stmtDeleteAll      = "DELETE FROM inventario"
	stmtSelectAllAsc   = selectColumns + " ORDER BY id ASC"
	stmtSelectAllDesc  = selectColumns + " ORDER BY id DESC"
	stmtSelectByID     = selectColumns + " WHERE id = ?"
)
