/*
 * doc.go, part of gomelt.
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package stf implements the simple trajectory format for bond vectors. stf aims to produce
//reasonably small files that are very easy to read and write, so the MD driver can write
//them from any language, while being reasonably fast to read.

/******************** Format Specification   ***************************************************

An STF file has the extension stf, and it is compressed with z-standard (zstd). Files ending
in 'z' are gzip-compressed, files ending in 'l' are lzw-compressed and files ending in 'r' are
raw deflate streams.

A STF file may only contain ASCII symbols.

A STF file has a "header" starting in the first line, and ending with a line that starts with the
characters "**" followed by one or more spaces, and the number of vectors (residues) per frame.

Each line of the header must be a pair key=value. The following keys are understood:

prec=4     the precision, an integer greater than 0 (see below). The default is 4.
dt=0.01    the sampling interval in ns. Required by ReadBonds.
t0=0       the time of the first frame in ns. Default 0.

After the header, the file has one line per residue, per frame. Each line contains 3 numbers,
corresponding to the x y and z components of the bond vector, respectively, and nothing more.
Each number is the component multiplied by 10 to the power of (precision) and rounded to an
integer. A residue without a bond vector in a frame is written as the single field NA.

Each frame ends with a line containing only the character "*" (no whitespaces before).

The "**" sequence may only be used as a header termination, as described above and can not appear
anywhere else in the file.

***************************************************************************************************/

package stf
