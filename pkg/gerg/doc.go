// Package gerg fetches observation tables from the GERG tabsquery service at
// Texas A&M. TABS buoys serve up to four instrument tables (met, salt, ven,
// wave) which are joined into one dataset; PORTS stations, model output, and
// full ADCP profiles come from the same service through single queries. All
// tables are tab-delimited text with a leading timestamp column and -999 as
// the missing-value sentinel.
package gerg
