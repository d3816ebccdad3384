/*
Package utils provides the decorators every fundpool transaction passes
through before it reaches an extension handler: structured logging of the
result, panic recovery and store savepoints.
*/
package utils
