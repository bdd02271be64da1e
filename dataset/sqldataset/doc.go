/*
Package sqldataset provides a record store that uses
an SQL database as backend.

The store uses a single records table with:
  * a TEXT column for each feature
  * a TEXT column for the label
  * an id column keeping the insertion order

Undefined feature values and empty labels are stored
as NULL. Adapters provide the dialect of each database.
*/
package sqldataset
