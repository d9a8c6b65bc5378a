// Package http exposes the reservation services over JSON.
//
// Routes (see router.go):
//   - GET /healthz: store ping, no authentication.
//   - POST /api/user/register, POST /api/user/login: return {"token","expires_at",
//     "user_name","email","is_receptionist"} inside the result envelope.
//   - GET /api/countries, GET /api/cities: seeded reference data.
//   - GET /api/offices, GET /api/offices/:id: any authenticated caller.
//   - POST /api/offices, PUT /api/offices/:id, DELETE /api/offices/:id: receptionists
//     only. The body is the `officeRequest` defined in office_handler.go.
//   - GET, POST /api/reservations and GET, PUT, DELETE /api/reservations/:id: any
//     authenticated caller. The body is the `reservationRequest` defined in
//     reservation_handler.go.
//
// Service results are written as {"code","errors","data"} with the HTTP status
// equal to code. Failures that never reach a service (malformed body, DTO
// validation, authentication) use {"error_code","message","errors"}.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
