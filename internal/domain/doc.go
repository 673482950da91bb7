// Package domain contains the core business entities, value objects, and
// validation rules of the accounts service. It is independent of storage
// and transport: stores persist these types and the HTTP layer renders them.
package domain
