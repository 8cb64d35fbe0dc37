// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// amounts are stored as the bit pattern of the uint64 value.
const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY NOT NULL,
	time INTEGER NOT NULL,
	caller BLOB NOT NULL,
	program BLOB NOT NULL,
	name TEXT NOT NULL,
	jobID BLOB,
	applicationID BLOB,
	subject BLOB,
	amount INTEGER NOT NULL,
	reward INTEGER NOT NULL,
	status TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(jobID);
CREATE INDEX IF NOT EXISTS event_i1 ON event(applicationID);
CREATE INDEX IF NOT EXISTS event_i2 ON event(subject);
CREATE INDEX IF NOT EXISTS event_i3 ON event(name);
`
