/*
Package utils holds decorators shared by every route of the application:
panic recovery, savepoints, logging, action tags and prometheus metrics.
*/
package utils
