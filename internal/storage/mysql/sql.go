package mysql

// Score columns follow domain.Categories() order.
const insertRatingSQL = `
INSERT INTO ratings
  (city, city_key, country, region, short_description, budget_level,
   culture, adventure, nature, beaches, cuisine, wellness, urban, seclusion)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const listRatingsSQL = `
SELECT
  city, country, region, short_description, budget_level,
  culture, adventure, nature, beaches, cuisine, wellness, urban, seclusion
FROM ratings
ORDER BY id
`

const getRatingSQL = `
SELECT
  city, country, region, short_description, budget_level,
  culture, adventure, nature, beaches, cuisine, wellness, urban, seclusion
FROM ratings
WHERE city_key = ?
`
