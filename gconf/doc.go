/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension keeps a single configuration entity, stored under a key derived
from the extension name. Configuration is loaded from the genesis file ("conf"
section) and can later be patched with an update message signed by the
configuration owner.

Not being able to load a configuration is a critical condition for the
handlers that depend on it and such transactions are rejected.
*/
package gconf
