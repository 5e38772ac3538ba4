package mysql

const upsertListingSQL = `
INSERT INTO hotels
  (id, name, city, country, address_raw, stars, price_per_night,
   max_adults, max_children, facilities, types, tags, amenities,
   featured, raw)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name            = VALUES(name),
  city            = VALUES(city),
  country         = VALUES(country),
  address_raw     = VALUES(address_raw),
  stars           = VALUES(stars),
  price_per_night = VALUES(price_per_night),
  max_adults      = VALUES(max_adults),
  max_children    = VALUES(max_children),
  facilities      = VALUES(facilities),
  types           = VALUES(types),
  tags            = VALUES(tags),
  amenities       = VALUES(amenities),
  featured        = VALUES(featured),
  raw             = VALUES(raw),
  updated_at      = CURRENT_TIMESTAMP
`

const insertMissSQL = `
INSERT INTO listing_misses (id, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE seen_at = CURRENT_TIMESTAMP
`

const getListingSQL = `
SELECT id, name, city, country, address_raw, stars, price_per_night,
       max_adults, max_children, facilities, types, tags, amenities,
       featured, total_bookings, total_revenue, updated_at
FROM hotels
WHERE id = ?
`

const listingColumns = `id, name, city, country, address_raw, stars, price_per_night,
       max_adults, max_children, facilities, types, tags, amenities,
       featured, total_bookings, total_revenue, updated_at`

// -----------------------------------------------------------------------------
// BOOKING LEDGER
// -----------------------------------------------------------------------------

const insertReservationSQL = `
INSERT INTO reservations
  (id, hotel_id, guest_id, check_in, check_out, adults, children, rooms,
   allocations, total_cost, status, payment_status, reminder_sent)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getReservationSQL = `
SELECT id, hotel_id, guest_id, check_in, check_out, adults, children, rooms,
       allocations, total_cost, status, payment_status, reminder_sent,
       created_at, updated_at
FROM reservations
WHERE id = ?
`

// Locking read used inside write transactions: any pending/confirmed
// reservation overlapping the half-open window blocks the write.
const reservationOverlapForUpdateSQL = `
SELECT id FROM reservations
WHERE hotel_id = ?
  AND status IN ('pending','confirmed')
  AND check_in < ? AND check_out > ?
  AND id <> ?
LIMIT 1
FOR UPDATE
`

const reservationOverlapSQL = `
SELECT EXISTS(
  SELECT 1 FROM reservations
  WHERE hotel_id = ?
    AND status IN ('pending','confirmed')
    AND check_in < ? AND check_out > ?
    AND id <> ?
)
`

const reservationConflictHotelsSQL = `
SELECT DISTINCT hotel_id FROM reservations
WHERE status IN ('pending','confirmed')
  AND check_in < ? AND check_out > ?
`

const updateReservationDatesSQL = `
UPDATE reservations SET check_in = ?, check_out = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

const updateReservationStatusSQL = `
UPDATE reservations SET status = ?, payment_status = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

// -----------------------------------------------------------------------------
// MAINTENANCE LEDGER
// -----------------------------------------------------------------------------

const insertMaintenanceSQL = `
INSERT INTO maintenance_windows
  (id, hotel_id, title, description, start_date, end_date, priority, status, created_by)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const maintenanceOverlapForUpdateSQL = `
SELECT id FROM maintenance_windows
WHERE hotel_id = ?
  AND start_date < ? AND end_date > ?
LIMIT 1
FOR UPDATE
`

const maintenanceOverlapSQL = `
SELECT EXISTS(
  SELECT 1 FROM maintenance_windows
  WHERE hotel_id = ?
    AND start_date < ? AND end_date > ?
)
`

const maintenanceConflictHotelsSQL = `
SELECT DISTINCT hotel_id FROM maintenance_windows
WHERE start_date < ? AND end_date > ?
`

const deleteMaintenanceSQL = `
DELETE FROM maintenance_windows WHERE id = ? AND hotel_id = ?
`

// -----------------------------------------------------------------------------
// WAITLIST
// -----------------------------------------------------------------------------

const insertWaitlistSQL = `
INSERT INTO waitlist_entries
  (id, hotel_id, guest_name, guest_email, check_in, check_out)
VALUES
  (?, ?, ?, ?, ?, ?)
`

const listWaitlistSQL = `
SELECT id, hotel_id, guest_name, guest_email, check_in, check_out, created_at
FROM waitlist_entries
WHERE hotel_id = ?
ORDER BY created_at, id
`
