package mysql

// -----------------------------------------------------------------------------
// HOTELS
// -----------------------------------------------------------------------------

// id may be NULL (auto increment) or explicit, in which case an existing row
// is overwritten.
const upsertHotelSQL = `
INSERT INTO hotels
  (id, name, description, price, image, location, rating, amenities, available_rooms)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name            = VALUES(name),
  description     = VALUES(description),
  price           = VALUES(price),
  image           = VALUES(image),
  location        = VALUES(location),
  rating          = VALUES(rating),
  amenities       = VALUES(amenities),
  available_rooms = VALUES(available_rooms)
`

const updateHotelSQL = `
UPDATE hotels SET
  name = ?, description = ?, price = ?, image = ?, location = ?,
  rating = ?, amenities = ?, available_rooms = ?
WHERE id = ?
`

const selectHotelCols = `
SELECT id, name, description, price, image, location, rating, amenities, available_rooms
FROM hotels
`

// -----------------------------------------------------------------------------
// USERS
// -----------------------------------------------------------------------------

// Plain insert so a duplicate email surfaces as error 1062.
const insertUserSQL = `
INSERT INTO users
  (email, name, role, status, password_hash, created_at, last_login)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
`

const upsertUserSQL = `
INSERT INTO users
  (id, email, name, role, status, password_hash, created_at, last_login)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  email         = VALUES(email),
  name          = VALUES(name),
  role          = VALUES(role),
  status        = VALUES(status),
  password_hash = VALUES(password_hash),
  created_at    = COALESCE(VALUES(created_at), users.created_at),
  last_login    = COALESCE(VALUES(last_login), users.last_login)
`

const updateUserSQL = `
UPDATE users SET
  email = ?, name = ?, role = ?, status = ?, password_hash = ?, last_login = ?
WHERE id = ?
`

const selectUserCols = `
SELECT id, email, name, role, status, password_hash, created_at, last_login
FROM users
`

// -----------------------------------------------------------------------------
// BOOKINGS
// -----------------------------------------------------------------------------

const upsertBookingSQL = `
INSERT INTO bookings
  (id, user_id, hotel_id, check_in, check_out, total_price, guest_count,
   special_requests, status, created_at, room_type, payment_status, guest_details)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  user_id          = VALUES(user_id),
  hotel_id         = VALUES(hotel_id),
  check_in         = VALUES(check_in),
  check_out        = VALUES(check_out),
  total_price      = VALUES(total_price),
  guest_count      = VALUES(guest_count),
  special_requests = VALUES(special_requests),
  status           = VALUES(status),
  created_at       = VALUES(created_at),
  room_type        = VALUES(room_type),
  payment_status   = VALUES(payment_status),
  guest_details    = VALUES(guest_details)
`

const updateBookingSQL = `
UPDATE bookings SET
  user_id = ?, hotel_id = ?, check_in = ?, check_out = ?, total_price = ?,
  guest_count = ?, special_requests = ?, status = ?, room_type = ?,
  payment_status = ?, guest_details = ?
WHERE id = ?
`

const selectBookingCols = `
SELECT id, user_id, hotel_id, check_in, check_out, total_price, guest_count,
       special_requests, status, created_at, room_type, payment_status, guest_details
FROM bookings
`
