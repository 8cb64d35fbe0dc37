// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the program storage of the settlement ledger.
// It follows the flow as bellow:
//
//	          o
//	          |
//	 [ revertable state ]
//	          |
//	   [ stacked map ] -> [ journal ] -> [ playback(staging) ] -> [ committed revision ]
//	          |
//	 [ committed value cache ]
//	          |
//	     [ key/value db ]
//
// Every State reads at the head revision of its Stater at creation time. A
// Stage built from a State commits only if no other stage committed since,
// otherwise ErrConflict is returned and the caller replays the operation.
package state
