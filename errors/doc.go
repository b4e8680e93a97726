/*
Package errors implements custom error interfaces for the custody engine.

Error declarations should be generic and cover broad range of cases. Each
returned error instance can wrap a generic error declaration to add more
details. Extensions register their own root errors with codes outside of
the range reserved by this package.
*/
package errors
