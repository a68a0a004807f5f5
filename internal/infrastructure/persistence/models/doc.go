// Package models contains the GORM persistence models. Domain aggregates stay
// free of ORM tags; each model converts with ToDomain and FromDomain.
package models
